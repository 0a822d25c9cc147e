package config

import (
	"fmt"

	"github.com/kbukum/sgacorrect/logger"
	"github.com/kbukum/sgacorrect/observability"
)

// ServiceConfig contains the ambient configuration of the command: logging
// and telemetry. Commands embed it next to their own settings.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipeline runplan.RawConfig `yaml:",inline" mapstructure:",squash"`
//	}
type ServiceConfig struct {
	Name      string               `yaml:"name" mapstructure:"name"`
	Debug     bool                 `yaml:"debug" mapstructure:"debug"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetServiceConfig returns the base ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Debug forces debug-level logging.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "sgacorrect"
	}
	if c.Debug {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}
