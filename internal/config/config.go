package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	MigrateOnStart bool

	Bids        BidConfig
	Invitations InvitationConfig
	Reputation  ReputationConfig
}

type BidConfig struct {
	// RejectSiblingsOnAccept enables the accept cascade onto competing bids.
	RejectSiblingsOnAccept bool
}

type InvitationConfig struct {
	DefaultTTL time.Duration
}

type ReputationConfig struct {
	RecalcConcurrency int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("BID_ACCEPT_REJECTS_SIBLINGS", false)
	v.SetDefault("INVITATION_TTL", "72h")
	v.SetDefault("RECALC_CONCURRENCY", 4)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		Bids: BidConfig{
			RejectSiblingsOnAccept: v.GetBool("BID_ACCEPT_REJECTS_SIBLINGS"),
		},
		Reputation: ReputationConfig{
			RecalcConcurrency: v.GetInt("RECALC_CONCURRENCY"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable not set: DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("required environment variable not set: JWT_SECRET")
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}
	cfg.JWTAccessExpiry = accessExpiry

	ttl, err := time.ParseDuration(v.GetString("INVITATION_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 72 * time.Hour
	}
	cfg.Invitations.DefaultTTL = ttl

	if cfg.Reputation.RecalcConcurrency < 1 {
		cfg.Reputation.RecalcConcurrency = 1
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SlogLevel resolves LOG_LEVEL, falling back to debug outside production.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if c.Env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
