package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ErrNotStarted is wrapped by Run when the executable could not be launched.
var ErrNotStarted = errors.New("process: not started")

// Run executes a subprocess and waits for it to complete.
// If the context is canceled, SIGTERM is sent to the process group first,
// then SIGKILL after GracePeriod.
//
// Run always returns a Result once the binary is set; the error tells apart
// a launch failure (wraps ErrNotStarted), cancellation (wraps the context
// error) and a non-zero exit.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = 5 * time.Second
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	stdout, stderr := newTailBuffer(cmd.TailBytes), newTailBuffer(cmd.TailBytes)
	c.Stdout = tee(stdout, cmd.Stdout)
	c.Stderr = tee(stderr, cmd.Stderr)

	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	// Use process group so we can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:          stdout.Bytes(),
		Stderr:          stderr.Bytes(),
		StderrTruncated: stderr.Truncated(),
		ExitCode:        c.ProcessState.ExitCode(),
		Started:         c.ProcessState != nil,
		Duration:        duration,
	}

	if err != nil {
		// Context cancellation is the expected way to kill a process
		if ctx.Err() != nil {
			return result, fmt.Errorf("process: killed by context: %w", context.Cause(ctx))
		}
		if !result.Started {
			return result, fmt.Errorf("%w: %s: %w", ErrNotStarted, cmd.Binary, err)
		}
		return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, err)
	}

	return result, nil
}

// tee writes to the tail and, if set, to extra.
func tee(tail io.Writer, extra io.Writer) io.Writer {
	if extra == nil {
		return tail
	}
	return io.MultiWriter(tail, extra)
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
