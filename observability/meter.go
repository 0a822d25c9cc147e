package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// newMeterProvider builds an OTLP-exporting meter provider.
func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// StageMetrics holds the instruments recorded by the pipeline driver.
type StageMetrics struct {
	stageRuns     metric.Int64Counter
	stageDuration metric.Float64Histogram
	pipelineRuns  metric.Int64Counter
}

// NewStageMetrics creates metric instruments on the given meter.
func NewStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	stageRuns, err := meter.Int64Counter("sgacorrect.stage.runs",
		metric.WithDescription("Stage executions by stage and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sgacorrect.stage.runs counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("sgacorrect.stage.duration",
		metric.WithDescription("Wall-clock duration of stage executions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sgacorrect.stage.duration histogram: %w", err)
	}

	pipelineRuns, err := meter.Int64Counter("sgacorrect.pipeline.runs",
		metric.WithDescription("Pipeline executions by terminal state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sgacorrect.pipeline.runs counter: %w", err)
	}

	return &StageMetrics{
		stageRuns:     stageRuns,
		stageDuration: stageDuration,
		pipelineRuns:  pipelineRuns,
	}, nil
}

// RecordStage records one stage execution. A nil receiver is a no-op.
func (m *StageMetrics) RecordStage(ctx context.Context, stage, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordPipeline records one terminated pipeline run. A nil receiver is a no-op.
func (m *StageMetrics) RecordPipeline(ctx context.Context, state string) {
	if m == nil {
		return
	}
	m.pipelineRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}
