package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.EqualValues(t, 8188, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "./bookwriter.db", cfg.Database.Path)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.True(t, cfg.Auth.SecureCookies)

	assert.Equal(t, "0 * * * *", cfg.Sessions.PurgeSchedule)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("AUTH_SECURE_COOKIES", "false")

	cfg := NewConfig()

	assert.EqualValues(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.False(t, cfg.Auth.SecureCookies)
}
