package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestRandomTokenIsUniqueHex(t *testing.T) {
	t1 := RandomToken()
	t2 := RandomToken()
	assert.Len(t, t1, 64)
	assert.NotEqual(t, t1, t2)
	assert.Regexp(t, "^[0-9a-f]+$", t1)
}
