package bootstrap

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/kbukum/sgacorrect/config"
	"github.com/kbukum/sgacorrect/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name string) *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: name}}
}

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-cli")
	app, err := NewApp(cfg, WithLogger(quietLogger()), WithVersion("1.2.3"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-cli" {
		t.Errorf("expected name 'test-cli', got %q", app.Name)
	}
	if app.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", app.Version)
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if app.Cfg.Logging.Level != "info" {
		t.Errorf("expected defaults applied, got level %q", app.Cfg.Logging.Level)
	}
}

func TestNewAppDefaultsName(t *testing.T) {
	app, err := NewApp(newTestConfig(""), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "sgacorrect" {
		t.Errorf("expected default name, got %q", app.Name)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := newTestConfig("test")
	cfg.Logging.Format = "xml"
	if _, err := NewApp(cfg, WithLogger(quietLogger())); err == nil {
		t.Error("expected error for invalid logging format")
	}
}

func TestGracefulTimeout(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	if app.gracefulTimeout != 10*time.Second {
		t.Errorf("expected default 10s, got %v", app.gracefulTimeout)
	}
	app, _ = NewApp(newTestConfig("test"), WithLogger(quietLogger()), WithGracefulTimeout(time.Second))
	if app.gracefulTimeout != time.Second {
		t.Errorf("expected 1s, got %v", app.gracefulTimeout)
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !executed {
		t.Error("expected task to be executed")
	}
	if app.Metrics == nil {
		t.Error("expected metrics to be set up")
	}
	if app.Telemetry.Enabled() {
		t.Error("telemetry should stay disabled without an endpoint")
	}
}

func TestRunTaskError(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("task error")
	})
	if err == nil || err.Error() != "task error" {
		t.Errorf("expected 'task error', got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel() // simulate signal
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err == nil {
		t.Error("expected error from canceled task")
	}
}

func TestRunTaskWithHooks(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))

	order := []string{}
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if fmt.Sprint(order) != "[start task stop]" {
		t.Errorf("unexpected hook order: %v", order)
	}
}

func TestRunTaskStartHookFails(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	app.OnStart(func(ctx context.Context) error { return fmt.Errorf("boom") })

	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err == nil {
		t.Fatal("expected startup error")
	}
	if executed {
		t.Error("task ran after failed startup")
	}
}

func TestRunTaskStopHookError(t *testing.T) {
	app, _ := NewApp(newTestConfig("test"), WithLogger(quietLogger()))
	app.OnStop(func(ctx context.Context) error { return fmt.Errorf("stop failed") })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected stop error when task succeeded")
	}

	err = app.RunTask(context.Background(), func(ctx context.Context) error { return fmt.Errorf("task error") })
	if err == nil || err.Error() != "task error" {
		t.Errorf("task error should win over stop error, got %v", err)
	}
}
