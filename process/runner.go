package process

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/sgacorrect/logger"
)

// ErrTimeout is the cancellation cause when Config.Timeout expires.
var ErrTimeout = stderrors.New("process: timeout exceeded")

// Config configures a Runner.
type Config struct {
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// TailBytes bounds the captured stderr tail.
	TailBytes int `yaml:"tail_bytes,omitempty" mapstructure:"tail_bytes"`
	// Debug streams every output line to the logger at debug level.
	Debug bool `yaml:"debug,omitempty" mapstructure:"debug"`
}

// Runner executes commands one at a time and classifies their outcome.
// It never retries.
type Runner struct {
	config Config
	log    *logger.Logger
}

// NewRunner creates a Runner. A nil log disables output streaming.
func NewRunner(cfg Config, log *logger.Logger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Run executes cmd, applying runner-level defaults, and waits for it.
func (r *Runner) Run(ctx context.Context, cmd Command) Outcome {
	if cmd.GracePeriod == 0 && r.config.GracePeriod > 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	if cmd.TailBytes == 0 {
		cmd.TailBytes = r.config.TailBytes
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.config.Timeout, ErrTimeout)
		defer cancel()
	}

	if r.config.Debug && r.log != nil {
		stdout := r.log.NewLineWriter(zerolog.DebugLevel, logger.Fields(logger.FieldStream, "stdout"))
		stderr := r.log.NewLineWriter(zerolog.DebugLevel, logger.Fields(logger.FieldStream, "stderr"))
		defer stdout.Flush()
		defer stderr.Flush()
		cmd.Stdout = tee(stdout, cmd.Stdout)
		cmd.Stderr = tee(stderr, cmd.Stderr)
	}

	result, err := Run(ctx, cmd)
	return classify(ctx, result, err)
}

func classify(ctx context.Context, result *Result, err error) Outcome {
	if result == nil {
		return Outcome{Kind: OutcomeLaunchFailure, ExitCode: -1, Err: err}
	}

	out := Outcome{
		ExitCode:   result.ExitCode,
		StderrTail: strings.TrimSpace(string(result.Stderr)),
		Duration:   result.Duration,
	}
	if result.StderrTruncated && out.StderrTail != "" {
		out.StderrTail = truncatedMarker + out.StderrTail
	}
	switch {
	case err != nil && ctx.Err() != nil:
		out.Kind = OutcomeCanceled
		out.Err = context.Cause(ctx)
	case !result.Started:
		out.Kind = OutcomeLaunchFailure
		out.Err = err
	case result.ExitCode != 0:
		out.Kind = OutcomeToolFailure
		out.Err = err
	default:
		out.Kind = OutcomeSuccess
	}
	return out
}
