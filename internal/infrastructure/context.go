package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID ensures the context has a trace ID. An active span's trace ID
// wins over a generated one.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return WithTraceID(ctx, sc.TraceID().String())
	}
	return WithTraceID(ctx, GenerateTraceID())
}

// LoggerWithContext returns base annotated with the context's trace ID.
func LoggerWithContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		return base.With(slog.String("trace_id", traceID))
	}
	return base
}
