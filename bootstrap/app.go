package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/sgacorrect/logger"
	"github.com/kbukum/sgacorrect/observability"
	"github.com/kbukum/sgacorrect/version"
)

// App represents a command-line application with uniform lifecycle
// management. The type parameter C is the config type, which must satisfy
// the Config interface. Any struct embedding config.ServiceConfig
// automatically satisfies Config.
type App[C Config] struct {
	Name      string
	Version   string
	Cfg       C
	Logger    *logger.Logger
	Telemetry *observability.Telemetry
	// Metrics is available once RunTask has started the task.
	Metrics *observability.StageMetrics

	gracefulTimeout time.Duration

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         version.Short(),
		Cfg:             cfg,
		gracefulTimeout: 10 * time.Second,
	}

	o := resolveOptions(opts)
	if o.version != "" {
		app.Version = o.version
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	return app, nil
}

// RunTask executes a finite task with the full lifecycle: telemetry setup,
// OnStart hooks, the task itself under a context canceled by SIGINT or
// SIGTERM, then OnStop hooks and telemetry shutdown.
//
// The task's error is returned unchanged; a shutdown error is returned only
// when the task succeeded.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	// Set up signal-based cancellation for the task
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Warn("Received signal, canceling run", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup installs telemetry and runs OnStart hooks.
func (a *App[C]) startup(ctx context.Context) error {
	a.Logger.Debug("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	tcfg := a.Cfg.GetServiceConfig().Telemetry
	if tcfg.ServiceVersion == "" {
		tcfg.ServiceVersion = a.Version
	}
	tel, err := observability.Setup(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	a.Telemetry = tel

	metrics, err := observability.NewStageMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("metrics setup failed: %w", err)
	}
	a.Metrics = metrics

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	return nil
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks and flushes telemetry within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook failed", map[string]interface{}{"error": err.Error()})
		shutdownErr = err
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			a.Logger.Error("Telemetry shutdown failed", map[string]interface{}{"error": err.Error()})
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
	}
	return shutdownErr
}
