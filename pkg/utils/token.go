package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns a 64-character hex token from 32 random bytes. Used for
// email verification and password reset tokens.
func RandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b)
}
