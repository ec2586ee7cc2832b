package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/lexsync/internal/fetch"
	"github.com/roach88/lexsync/internal/instrument"
)

// EnvConfig holds process settings read from the environment. Command
// flags default to these values.
type EnvConfig struct {
	OutDir       string `env:"LEXSYNC_OUT_DIR" envDefault:"api"`
	Sources      string `env:"LEXSYNC_SOURCES"`
	Database     string `env:"LEXSYNC_DB"`
	UserAgent    string `env:"LEXSYNC_USER_AGENT"`
	DefaultTopic string `env:"LEXSYNC_DEFAULT_TOPIC"`
	HistoryLimit int    `env:"LEXSYNC_HISTORY_LIMIT" envDefault:"20"`
}

// LoadEnvConfig parses EnvConfig from the environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.DefaultTopic == "" {
		cfg.DefaultTopic = instrument.DefaultTopic
	}
	return cfg, nil
}
