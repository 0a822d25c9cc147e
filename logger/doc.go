// Package logger provides structured logging for sgacorrect using zerolog.
//
// It supports console and JSON output, log level configuration and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so they never interleave with data written to stdout.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("pipeline")
//	log.Info("stage finished", logger.Fields(logger.FieldStage, "Index"))
package logger
