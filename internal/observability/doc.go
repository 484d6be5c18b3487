// Package observability provides observability infrastructure for the
// aggregation engine: structured logging, Prometheus metrics, and
// OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "newspy/internal/observability/logging"
//	    "newspy/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("aggregation started")
//
//	    metrics.RecordProviderFetch("rssfeed", true, 12, elapsed)
//	}
package observability
