package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is threaded through all constructors so tests can build isolated
// instances with their own mega admin and thresholds.
type Config struct {
	BotToken    string `env:"BOT_TOKEN"`
	MegaAdminID int64  `env:"MEGA_ADMIN_ID"`

	MySQLHost     string `env:"MYSQL_HOST" envDefault:"localhost"`
	MySQLPort     string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLUser     string `env:"MYSQL_USER"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDB       string `env:"MYSQL_DB"`

	// Admission defaults; bot_settings rows override these at runtime.
	RateLimitWindowSeconds     int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RateLimitMaxCount          int `env:"RATE_LIMIT_MAX_COUNT" envDefault:"10"`
	SubscriptionTTLSeconds     int `env:"SUBSCRIPTION_TTL_SECONDS" envDefault:"300"`
	SubscriptionCheckTimeoutMs int `env:"SUBSCRIPTION_CHECK_TIMEOUT_MS" envDefault:"3000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is not set")
	}
	if cfg.MegaAdminID == 0 {
		return nil, errors.New("MEGA_ADMIN_ID is not set")
	}

	return cfg, nil
}

// DSN builds the MySQL connection string. clientFoundRows makes UPDATE
// report matched instead of changed rows, which the stores rely on to keep
// idempotent writes distinguishable from missing rows.
func (cfg *Config) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.MySQLUser,
		cfg.MySQLPassword,
		cfg.MySQLHost,
		cfg.MySQLPort,
		cfg.MySQLDB,
	)
}

func (cfg *Config) RateLimitWindow() time.Duration {
	return time.Duration(cfg.RateLimitWindowSeconds) * time.Second
}

func (cfg *Config) SubscriptionTTL() time.Duration {
	return time.Duration(cfg.SubscriptionTTLSeconds) * time.Second
}

func (cfg *Config) SubscriptionCheckTimeout() time.Duration {
	return time.Duration(cfg.SubscriptionCheckTimeoutMs) * time.Millisecond
}
