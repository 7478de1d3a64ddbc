// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	Addr string `env:"SH_ADDR" envDefault:":8080"`
	// PublicURL is the externally reachable base URL used in join links. When
	// empty, links are built from the request host.
	PublicURL      string        `env:"SH_PUBLIC_URL"`
	IdleTimeout    time.Duration `env:"SH_IDLE_TIMEOUT" envDefault:"5m"`
	SweepInterval  time.Duration `env:"SH_SWEEP_INTERVAL" envDefault:"1m"`
	ChatLogSize    int           `env:"SH_CHAT_LOG_SIZE" envDefault:"250"`
	AllowedOrigins []string      `env:"SH_ALLOWED_ORIGINS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the server config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.IdleTimeout <= 0 {
		return Config{}, fmt.Errorf("SH_IDLE_TIMEOUT must be positive, got %s", cfg.IdleTimeout)
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("SH_SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	if cfg.ChatLogSize < 1 {
		return Config{}, fmt.Errorf("SH_CHAT_LOG_SIZE must be at least 1, got %d", cfg.ChatLogSize)
	}
	return cfg, nil
}
