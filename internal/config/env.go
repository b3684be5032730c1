package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Addr         string `env:"GRQ_ADDR" envDefault:":42069"`
	BalanceFile  string `env:"GRQ_BALANCE_FILE"`
	Difficulty   string `env:"GRQ_DIFFICULTY" envDefault:"default"`
	LogLevel     string `env:"GRQ_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"GRQ_LOG_FORMAT" envDefault:"json"`
	TelemetryDSN string `env:"GRQ_TELEMETRY_DSN"`
}

// FromEnv loads settings from environment variables, falling back to defaults.
func FromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Tables resolves the balance file when one is set, otherwise the difficulty preset.
func (s Settings) Tables() (*Tables, error) {
	if path := strings.TrimSpace(s.BalanceFile); path != "" {
		t, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("load balance %s: %w", path, err)
		}
		return t, nil
	}
	t, err := Preset(s.Difficulty)
	if err != nil {
		return nil, err
	}
	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
