// Package observability provides OpenTelemetry tracing and metrics for
// apiwatch hooks and their transport.
//
// Without initialisation the global no-op providers apply, so spans and
// instruments cost nothing.
//
// Tracing and metrics export:
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
// Hook metrics:
//
//	metrics, err := observability.WatchMeter("apiwatch")
//	metrics.RecordSettled(ctx, endpoint, "ok", duration)
package observability
