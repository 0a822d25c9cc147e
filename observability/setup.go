package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/sgacorrect/logger"
)

// Telemetry owns the providers installed by Setup.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Setup installs OTLP-exporting global providers when cfg has an endpoint.
// Without one it returns an inert Telemetry and the global no-op providers
// stay in place.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled() {
		return &Telemetry{}, nil
	}
	cfg.ApplyDefaults()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
		"interval", cfg.Interval.String(),
	))

	return &Telemetry{tracerProvider: tp, meterProvider: mp}, nil
}

// Enabled reports whether Setup installed exporting providers.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.tracerProvider != nil
}

// Shutdown flushes and stops the installed providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
