package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Kairi/gemini/internal/config"
	"github.com/Kairi/gemini/internal/gateway"
	"github.com/Kairi/gemini/internal/gemini"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	settings config.Settings
	log      zerolog.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.SettingsFromEnv()
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), &s)
	a.settings = s
	a.log = newLogger(s.LogLevel)
	return nil
}

// applyFlags overrides s with every flag the user set explicitly.
func applyFlags(fs *pflag.FlagSet, s *config.Settings) {
	if fs.Changed("port") {
		s.Port, _ = fs.GetString("port")
	}
	if fs.Changed("config") {
		s.ConfigFile, _ = fs.GetString("config")
	}
	if fs.Changed("backend") {
		s.Backend, _ = fs.GetString("backend")
	}
	if fs.Changed("adc") {
		s.UseADC, _ = fs.GetBool("adc")
	}
	if fs.Changed("log-level") {
		s.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("server") {
		s.ServerURL, _ = fs.GetString("server")
	}
}

// newLogger configures the global logger and returns it. Unknown levels
// fall back to info.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
	return log.Logger
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// openStore opens the configured backend and loads the configuration from
// it. The returned close function is never nil.
func (a *app) openStore() (*config.Store, func() error, error) {
	backend, closeBackend, err := a.settings.OpenBackend()
	if err != nil {
		return nil, closeBackend, fmt.Errorf("failed to open config backend: %w", err)
	}
	ev := a.log.Info().Str("backend", a.settings.Backend)
	if b, ok := backend.(interface{ Path() string }); ok {
		ev = ev.Str("path", b.Path())
	}
	ev.Msg("using configuration store")

	store, err := config.NewStore(backend)
	if err != nil {
		return nil, closeBackend, err
	}
	return store, closeBackend, nil
}

// gatewayFactory returns a constructor for per-key gateways sharing one
// provider.
func (a *app) gatewayFactory(ctx context.Context) (func(apiKey string) *gateway.Gateway, error) {
	var opts []gemini.Option
	if a.settings.UseADC {
		ts, err := gemini.DefaultTokenSource(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gemini.WithTokenSource(ts))
	}
	p := gemini.New(opts...)
	return func(apiKey string) *gateway.Gateway {
		return gateway.New(p, apiKey)
	}, nil
}
