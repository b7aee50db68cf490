package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings of the patient panel service.
type Config struct {
	// Port is the HTTP listen port.
	Port int `env:"PATIENTNAV_PORT" envDefault:"8080"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SessionTTL is how long an idle visitor keeps its sidebar instance.
	SessionTTL time.Duration `env:"PATIENTNAV_SESSION_TTL" envDefault:"30m"`

	// SweepInterval is how often idle sessions are collected.
	SweepInterval time.Duration `env:"PATIENTNAV_SWEEP_INTERVAL" envDefault:"1m"`

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool `env:"PATIENTNAV_COOKIE_SECURE" envDefault:"false"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports settings that cannot run.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}
