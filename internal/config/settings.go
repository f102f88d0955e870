package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

// Backend kinds accepted in Settings.Backend
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Settings holds process-level options read from the environment. They
// describe where the configuration lives and how the process runs, not the
// configuration itself.
type Settings struct {
	Port       string `env:"PORT" envDefault:"3000"`
	ConfigFile string `env:"GEMINI_CONFIG_FILE" envDefault:".env"`
	Backend    string `env:"GEMINI_CONFIG_BACKEND" envDefault:"file"`
	BoltPath   string `env:"GEMINI_BOLT_PATH" envDefault:"gemini.db"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	UseADC     bool   `env:"GEMINI_USE_ADC"`
	ServerURL  string `env:"GEMINI_BASE_URL" envDefault:"http://localhost:3000"`
}

// SettingsFromEnv parses Settings from the process environment.
func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("failed to parse environment: %w", err)
	}
	return s, nil
}

// OpenBackend returns the backend selected by s. The returned close function
// is never nil.
func (s Settings) OpenBackend() (Backend, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(s.Backend) {
	case "", BackendFile:
		return NewFileBackend(s.ConfigFile), noop, nil
	case BackendBolt:
		b, err := OpenBoltBackend(s.BoltPath)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case BackendMemory:
		return NewMemoryBackend(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown config backend %q", s.Backend)
	}
}
