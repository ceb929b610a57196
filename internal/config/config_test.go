package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 24*time.Hour, cfg.JWTShortExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Contains(t, cfg.MongoURI, "craftfolio")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "Production")
	t.Setenv("JWT_EXPIRE_DAYS", "7")
	t.Setenv("JWT_SHORT_EXPIRE_HOURS", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 2*time.Hour, cfg.JWTShortExpiry)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestOriginsFallBackToFrontendURL(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://craftfolio.example.com")

	cfg := Load()
	assert.Equal(t, []string{"https://craftfolio.example.com"}, cfg.AllowedOrigins)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRE_DAYS", "banana")
	cfg := Load()
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
}
