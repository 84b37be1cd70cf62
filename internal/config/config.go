// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all externally supplied settings. Secrets and lifetimes are
// never hard-coded; the signing key's minimum strength is enforced by the
// token manager at construction.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"DATABASE_DSN,required,notEmpty"`

	SigningKey string        `env:"JWT_SIGNING_KEY,required,notEmpty"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	LoginWindow   time.Duration `env:"LOGIN_FAIL_WINDOW" envDefault:"15m"`
	LoginMaxFails int           `env:"LOGIN_MAX_FAILS" envDefault:"5"`
	LoginBlockFor time.Duration `env:"LOGIN_BLOCK_FOR" envDefault:"15m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
