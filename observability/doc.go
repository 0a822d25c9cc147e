// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Instrumentation always goes through the global providers, so it is a
// no-op until Setup installs exporting providers. Export is enabled only
// when an OTLP endpoint is configured:
//
//	telemetry:
//	  endpoint: "localhost:4318"
//	  insecure: true
//
//	tel, err := observability.Setup(ctx, cfg.Telemetry)
//	defer tel.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "stage.Index")
//	defer span.End()
package observability
