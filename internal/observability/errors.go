package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorEvent describes a failed operation for RecordError.
type ErrorEvent struct {
	Operation string // e.g. "solve", "batch", "schematic"
	Code      string // stable error code, e.g. "invalid_resistance"
	Message   string // message returned to the client
	Status    int    // HTTP status the caller is about to write
	Err       error
}

// RecordError centralises error bookkeeping across all domains: records the
// error on the span, increments the provided error counter and logs with
// trace context. Client errors are logged at warn level, server errors at
// error level. Writing the response is left to the caller.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, ev ErrorEvent) {
	span.RecordError(ev.Err)
	span.SetStatus(codes.Error, ev.Message)
	span.SetAttributes(attribute.String("error.code", ev.Code))

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", ev.Operation),
		attribute.String("code", ev.Code),
	))

	fields := []zap.Field{
		zap.String("operation", ev.Operation),
		zap.String("code", ev.Code),
		zap.Int("status", ev.Status),
		zap.Error(ev.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if ev.Status >= http.StatusInternalServerError {
		logger.Error(ev.Message, fields...)
		return
	}
	logger.Warn(ev.Message, fields...)
}
