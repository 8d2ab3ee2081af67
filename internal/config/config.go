package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Auth
		Sessions
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		JWTSecret       string        // HS256 signing secret; auto-generated at boot if empty
		AccessTokenTTL  time.Duration // lifetime of issued access tokens
		RefreshTokenTTL time.Duration // lifetime of issued refresh tokens
		BcryptCost      int
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Sessions struct {
		PurgeSchedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./bookwriter.db")

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "") // Auto-generated if empty
	v.SetDefault("auth_access_token_ttl", "15m")
	v.SetDefault("auth_refresh_token_ttl", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)           // bcrypt cost factor
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", true) // HTTPS-only cookies

	// Session purge defaults
	v.SetDefault("session_purge_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			JWTSecret:       v.GetString("AUTH_JWT_SECRET"),
			AccessTokenTTL:  v.GetDuration("AUTH_ACCESS_TOKEN_TTL"),
			RefreshTokenTTL: v.GetDuration("AUTH_REFRESH_TOKEN_TTL"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Sessions: Sessions{
			PurgeSchedule: v.GetString("SESSION_PURGE_SCHEDULE"),
		},
	}
}
