// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by every subcommand. Command-line flags
// override these after Load.
type Config struct {
	DataDir  string   `env:"SHOPLIST_DATA_DIR" envDefault:"."`
	Storage  string   `env:"SHOPLIST_STORAGE" envDefault:"file"`
	Key      string   `env:"SHOPLIST_KEY" envDefault:"shoppingListItems"`
	Theme    string   `env:"SHOPLIST_THEME" envDefault:"classic"`
	NoColor  Presence `env:"NO_COLOR"`
	LogLevel string   `env:"SHOPLIST_LOG_LEVEL" envDefault:"warn"`
	LogFile  string   `env:"SHOPLIST_LOG_FILE"`
}

// Presence is true whenever its variable is set to a non-empty value, the
// way NO_COLOR is read by other tools.
type Presence bool

func (p *Presence) UnmarshalText(b []byte) error {
	*p = len(b) > 0
	return nil
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
