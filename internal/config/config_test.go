package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"JWT_SECRET", "BCRYPT_COST", "APP_TIMEZONE", "STATS_CACHE_TTL_SECONDS", "JWT_EXPIRY_HOURS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "Asia/Jakarta", cfg.AppTimezone)
	assert.Equal(t, time.Minute, cfg.StatsCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.sch.id , ,https://b.sch.id")

	cfg := Load()

	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.sch.id", "https://b.sch.id"}, cfg.AllowedOrigins)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{AppTimezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())
}
