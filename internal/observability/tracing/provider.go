package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitProvider installs a tracer provider as the global OpenTelemetry
// provider and returns a shutdown function that flushes pending spans.
// Without an exporter configured the provider is effectively a no-op, which
// is the right default for library and CLI use.
func InitProvider(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
