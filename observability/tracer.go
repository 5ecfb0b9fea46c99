package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiwatch/logger"
)

const defaultTracerName = "github.com/kbukum/apiwatch"

// TracerConfig configures the trace provider installed by InitTracer.
type TracerConfig struct {
	Resource
	Exporter
	// SampleRate is the fraction of attempts traced, 0 to 1.
	SampleRate float64
}

// InitTracer installs a batching OTLP trace provider as the global one.
// The caller shuts it down on exit.
func InitTracer(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.endpoint())}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := cfg.Resource.build()
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled", logger.Fields(
		"service", cfg.Service,
		logger.FieldEndpoint, cfg.endpoint(),
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

// sampler respects the parent decision so a traced caller keeps its trace.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the package tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(defaultTracerName).Start(ctx, name, opts...)
}

// Span names.
const (
	SpanHTTPRequest  = "http.request"
	SpanFetchAttempt = "fetch.attempt"
)

// Attribute keys set on fetch spans.
const (
	AttrHookID     = "fetch.hook_id"
	AttrEndpoint   = "fetch.endpoint"
	AttrMethod     = "fetch.method"
	AttrGeneration = "fetch.generation"
	AttrOutcome    = "fetch.outcome"
)
