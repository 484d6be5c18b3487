// Package tracing provides OpenTelemetry tracing integration for the
// aggregation engine. Spans are created around the provider fan-out and the
// archive enrichment pass so that a slow upstream is attributable to one
// provider rather than the aggregation as a whole.
package tracing
