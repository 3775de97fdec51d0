package app

import (
	"log/slog"

	"github.com/thenoetrevino/checklist/internal/session"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger   *slog.Logger
	sessions *session.Registry
	maxUsers int
}

func newAppConfig(opts []Option) *appConfig {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSessions sets the session registry, e.g. one with a custom TTL
func WithSessions(r *session.Registry) Option {
	return func(cfg *appConfig) {
		cfg.sessions = r
	}
}

// WithMaxUsers caps registrations; zero keeps the default of 5
func WithMaxUsers(n int) Option {
	return func(cfg *appConfig) {
		cfg.maxUsers = n
	}
}
