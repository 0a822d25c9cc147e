package bootstrap

import (
	"github.com/kbukum/sgacorrect/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) automatically
// satisfies this interface via promoted methods.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipeline runplan.RawConfig `yaml:",inline" mapstructure:",squash"`
//	}
//
//	app, err := bootstrap.NewApp[*AppConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
