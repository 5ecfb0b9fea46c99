package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/apiwatch/logger"
)

// DefaultExportInterval is used when MeterConfig.Interval is zero.
const DefaultExportInterval = 15 * time.Second

// MeterConfig configures the metric provider installed by InitMeter.
type MeterConfig struct {
	Resource
	Exporter
	// Interval between periodic exports.
	Interval time.Duration
}

// InitMeter installs a periodic OTLP metric provider as the global one.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.endpoint())}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := cfg.Resource.build()
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultExportInterval
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Metrics enabled", logger.Fields(
		"service", cfg.Service,
		logger.FieldEndpoint, cfg.endpoint(),
		"interval", interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// WatchMeter creates the fetch instruments on the global provider. Call it
// after Setup so the instruments bind to the exporting provider.
func WatchMeter(service string) (*FetchMetrics, error) {
	return NewFetchMetrics(Meter(service))
}
