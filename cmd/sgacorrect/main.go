// Command sgacorrect drives the SGA error-correction pipeline for one pair of
// read files.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/sgacorrect/bootstrap"
	"github.com/kbukum/sgacorrect/config"
	"github.com/kbukum/sgacorrect/errors"
	"github.com/kbukum/sgacorrect/logger"
	"github.com/kbukum/sgacorrect/pipeline"
	"github.com/kbukum/sgacorrect/process"
	"github.com/kbukum/sgacorrect/runplan"
	"github.com/kbukum/sgacorrect/version"
)

const (
	appName   = "sgacorrect"
	envPrefix = "SGACORRECT"
)

// AppConfig is everything the command reads from file, environment and flags.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline             runplan.RawConfig `yaml:",inline" mapstructure:",squash"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns its exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if !stderrors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stderr, "error: %v\n\n", err)
			fs.Usage()
		}
		return errors.ExitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments %q: read files are given with -1/-2 and flag values with --flag=value\n\n", fs.Args())
		fs.Usage()
		return errors.ExitUsage
	}
	if h, _ := fs.GetBool("help"); h {
		fs.Usage()
		return errors.ExitUsage
	}
	if v, _ := fs.GetBool("version"); v {
		fmt.Fprintln(stdout, version.Banner(appName))
		return errors.ExitOK
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return errors.ExitUsage
	}

	log := logger.NewWithWriter(&cfg.Logging, appName, stderr)
	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return errors.ExitUsage
	}

	raw := cfg.Pipeline
	raw.Debug = cfg.Debug
	plan, err := runplan.Resolve(raw)
	if err != nil {
		reportConfigError(stderr, fs, err)
		return errors.ExitCode(err)
	}
	app.Logger.Debug("run plan resolved", plan.Fields())

	var res pipeline.Result
	err = app.RunTask(ctx, func(ctx context.Context) error {
		runner := process.NewRunner(process.Config{
			Timeout: plan.StageTimeout,
			Debug:   plan.Debug,
		}, app.Logger.WithComponent("sga"))
		driver := pipeline.NewDriver(runner,
			pipeline.WithLogger(app.Logger),
			pipeline.WithMetrics(app.Metrics),
		)
		res = driver.Execute(ctx, plan)
		return res.Err
	})
	if res.State == "" {
		// The task never ran.
		app.Logger.Error("startup failed", logger.ErrorFields("startup", err))
		return errors.ExitCode(err)
	}

	app.Logger.Info("run summary", res.Summary())
	if !res.Succeeded {
		fmt.Fprintf(stderr, "sgacorrect: %s failed: %s\n", res.FailedStage, res.Message)
		return res.ExitCode
	}
	fmt.Fprintln(stdout, res.FinalOutputPath)
	return errors.ExitOK
}

// loadConfig layers the YAML file, .env, SGACORRECT_* variables and flags.
func loadConfig(fs *pflag.FlagSet) (*AppConfig, error) {
	opts := []config.LoaderOption{
		config.WithEnvPrefix(envPrefix),
		config.WithFlags(fs),
	}
	if path, _ := fs.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	var cfg AppConfig
	if err := config.LoadConfig(appName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// reportConfigError prints a resolution failure followed by usage.
func reportConfigError(w io.Writer, fs *pflag.FlagSet, err error) {
	fmt.Fprintf(w, "error: %v\n\n", err)
	if appErr, ok := errors.AsAppError(err); ok && !errors.IsConfigurationCode(appErr.Code) {
		return
	}
	fs.Usage()
}
