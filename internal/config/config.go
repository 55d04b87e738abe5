// Package config loads peano's environment defaults. Command-line flags
// override every value loaded here.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment defaults for the CLI.
type Config struct {
	// Database is the SQLite path used by eval, history and replay.
	Database string `env:"PEANO_DB"`

	// MaxMagnitude bounds literals and intermediate results.
	MaxMagnitude int `env:"PEANO_MAX_MAGNITUDE" envDefault:"65536"`

	// Format is the output format, "text" or "json".
	Format string `env:"PEANO_FORMAT" envDefault:"text"`

	Verbose bool `env:"PEANO_VERBOSE"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxMagnitude <= 0 {
		return Config{}, fmt.Errorf("PEANO_MAX_MAGNITUDE must be positive, got %d", cfg.MaxMagnitude)
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
