package observability

import (
	"context"
	"errors"
	"time"
)

// Config is the observability section of the config file. A zero SampleRate
// traces every attempt; a zero Endpoint means DefaultEndpoint.
type Config struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup installs OTLP trace and metric providers when cfg.Enabled is set.
// When disabled it returns a no-op shutdown and the global no-op providers stay.
func Setup(ctx context.Context, serviceName, version, environment string, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res := Resource{Service: serviceName, Version: version, Environment: environment}
	exp := Exporter{Endpoint: cfg.Endpoint, Insecure: cfg.Insecure}
	rate := cfg.SampleRate
	if rate == 0 {
		rate = 1
	}

	tp, err := InitTracer(ctx, TracerConfig{Resource: res, Exporter: exp, SampleRate: rate})
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, MeterConfig{Resource: res, Exporter: exp, Interval: cfg.Interval})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
