// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Provider-tagged log entries for fan-out attribution
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "newspy/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("aggregation started", slog.String("version", "1.0"))
//	}
package logging
