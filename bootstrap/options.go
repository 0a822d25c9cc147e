package bootstrap

import (
	"time"

	"github.com/kbukum/sgacorrect/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	version         string
	gracefulTimeout *time.Duration
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithVersion overrides the reported application version.
func WithVersion(v string) Option {
	return func(o *appOptions) {
		o.version = v
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
