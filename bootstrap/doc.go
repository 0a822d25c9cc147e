// Package bootstrap runs a command-line task with the shared lifecycle:
// validated configuration, logger, telemetry, signal-driven cancellation
// and an orderly shutdown that flushes telemetry.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return run(ctx, app)
//	})
//
// SIGINT and SIGTERM cancel the task context; the task is expected to
// return promptly once it is canceled.
package bootstrap
