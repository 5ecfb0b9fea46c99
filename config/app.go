package config

import (
	"fmt"
	"time"

	"github.com/kbukum/apiwatch/httpclient"
	"github.com/kbukum/apiwatch/observability"
	"github.com/kbukum/apiwatch/validation"
)

// AppConfig is the apiwatch configuration file.
//
//	name: apiwatch
//	http:
//	  timeout: 10s
//	watches:
//	  - name: status
//	    endpoint: https://api.example.com/status
//	    poll_interval: 5s
//	    track_changes: true
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Watches       []WatchConfig        `yaml:"watches" mapstructure:"watches" validate:"dive"`
}

// WatchConfig declares one polled endpoint.
type WatchConfig struct {
	Name         string            `yaml:"name" mapstructure:"name" validate:"required"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint" validate:"required,url"`
	PollInterval time.Duration     `yaml:"poll_interval" mapstructure:"poll_interval" validate:"gte=0"`
	Method       string            `yaml:"method" mapstructure:"method" validate:"omitempty,httpmethod"`
	Payload      any               `yaml:"payload" mapstructure:"payload"`
	Headers      map[string]string `yaml:"headers" mapstructure:"headers"`
	TrackChanges bool              `yaml:"track_changes" mapstructure:"track_changes"`
}

// ApplyDefaults fills in defaults for every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "apiwatch"
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	for i := range c.Watches {
		if c.Watches[i].Name == "" {
			c.Watches[i].Name = fmt.Sprintf("watch-%d", i+1)
		}
	}
}

// Validate checks every section and rejects duplicate watch names.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Watches))
	for _, w := range c.Watches {
		if seen[w.Name] {
			return fmt.Errorf("config.watches: duplicate name %q", w.Name)
		}
		seen[w.Name] = true
	}
	return nil
}
