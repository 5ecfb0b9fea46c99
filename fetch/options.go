package fetch

import (
	"github.com/kbukum/apiwatch/logger"
	"github.com/kbukum/apiwatch/observability"
)

// Option configures a Hook.
type Option func(*Hook)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(h *Hook) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMetrics records attempts, settlements and changes on m.
func WithMetrics(m *observability.FetchMetrics) Option {
	return func(h *Hook) {
		h.metrics = m
	}
}

// WithInitialData sets Data before the first response. Defaults to an empty map.
func WithInitialData(data any) Option {
	return func(h *Hook) {
		h.state.Data = data
	}
}
