package observability

import (
	"fmt"
	"time"
)

// Config configures OpenTelemetry export.
type Config struct {
	// ServiceName is the name reported in the service.name resource attribute.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version reported in the service.version resource attribute.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Endpoint is the OTLP HTTP endpoint host:port. Empty disables export.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// Enabled reports whether telemetry export is configured.
func (c *Config) Enabled() bool {
	return c.Endpoint != ""
}

// ApplyDefaults fills unset export settings.
func (c *Config) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate validates telemetry configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if c.Interval < 0 {
		return fmt.Errorf("telemetry.interval must not be negative (got: %s)", c.Interval)
	}
	return nil
}
