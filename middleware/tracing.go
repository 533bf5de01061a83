package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/beacon/task"
)

// tracerName is the instrumentation scope name for beacon tracing.
const tracerName = "github.com/xraph/beacon"

// Tracing returns middleware that wraps task execution in an OpenTelemetry span.
// If no TracerProvider is configured globally, the default noop tracer is used
// and this middleware becomes a pass-through with zero overhead.
//
// Span attributes include: beacon.task.name, beacon.task.seq,
// beacon.task.queued, beacon.task.sync. On error, the span status is set
// to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, t *task.Task, next Handler) error {
		ctx, span := tracer.Start(ctx, "beacon.task.execute",
			trace.WithAttributes(
				attribute.String("beacon.task.name", t.Name),
				attribute.Int64("beacon.task.seq", int64(t.Seq)), //nolint:gosec // seq never approaches int64 max
				attribute.Bool("beacon.task.queued", t.Queued),
				attribute.Bool("beacon.task.sync", t.Sync),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
