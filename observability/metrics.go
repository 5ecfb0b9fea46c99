package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded for a settled attempt.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeStale  = "stale"
	OutcomeCancel = "canceled"
)

// FetchMetrics holds the instruments recorded by fetch hooks. A nil
// *FetchMetrics records nothing.
type FetchMetrics struct {
	attempts   metric.Int64Counter
	superseded metric.Int64Counter
	changes    metric.Int64Counter
	errors     metric.Int64Counter
	duration   metric.Float64Histogram
	inFlight   metric.Int64UpDownCounter
}

// NewFetchMetrics creates metric instruments on the given meter.
func NewFetchMetrics(meter metric.Meter) (*FetchMetrics, error) {
	attempts, err := meter.Int64Counter("fetch.attempts",
		metric.WithDescription("Exchanges issued by hooks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.attempts counter: %w", err)
	}

	superseded, err := meter.Int64Counter("fetch.superseded",
		metric.WithDescription("In-flight exchanges cancelled by a newer trigger"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.superseded counter: %w", err)
	}

	changes, err := meter.Int64Counter("fetch.changes",
		metric.WithDescription("Responses that differed from the last seen payload"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.changes counter: %w", err)
	}

	errs, err := meter.Int64Counter("fetch.errors",
		metric.WithDescription("Exchanges that settled with a genuine failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("fetch.duration",
		metric.WithDescription("Time from issue to settlement"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.duration histogram: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter("fetch.in_flight",
		metric.WithDescription("Exchanges currently awaiting settlement"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.in_flight gauge: %w", err)
	}

	return &FetchMetrics{
		attempts:   attempts,
		superseded: superseded,
		changes:    changes,
		errors:     errs,
		duration:   duration,
		inFlight:   inFlight,
	}, nil
}

// RecordAttempt counts an issued exchange.
func (m *FetchMetrics) RecordAttempt(ctx context.Context, endpoint, method string) {
	if m == nil {
		return
	}
	m.inFlight.Add(ctx, 1)
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("method", method),
	))
}

// RecordSuperseded counts an exchange cancelled in favour of a newer one.
func (m *FetchMetrics) RecordSuperseded(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.superseded.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordSettled records the end of an exchange with its outcome.
func (m *FetchMetrics) RecordSettled(ctx context.Context, endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Add(ctx, -1)
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	m.duration.Record(ctx, d.Seconds(), attrs)
	if outcome == OutcomeError {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
}

// RecordChange counts a detected payload change.
func (m *FetchMetrics) RecordChange(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}
