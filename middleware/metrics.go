package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/beacon/task"
)

// meterName is the instrumentation scope name for beacon metrics.
const meterName = "github.com/xraph/beacon"

// Metrics returns middleware that records per-task execution metrics using
// the global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - beacon.task.duration (Float64Histogram): execution time in seconds,
//     with attributes: task_name, queued, status ("ok" or "error")
//   - beacon.task.executions (Int64Counter): total executions,
//     with attributes: task_name, queued, status ("ok" or "error")
//   - beacon.task.queue_wait (Float64Histogram): for queued tasks, time
//     between submission and execution in seconds, with attribute: task_name
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"beacon.task.duration",
		metric.WithDescription("Duration of task execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	executions, eErr := meter.Int64Counter(
		"beacon.task.executions",
		metric.WithDescription("Total number of task executions"),
		metric.WithUnit("{execution}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	queueWait, qErr := meter.Float64Histogram(
		"beacon.task.queue_wait",
		metric.WithDescription("Time a queued task waited between submission and execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = qErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, t *task.Task, next Handler) error {
		if t.Queued && !t.SubmittedAt.IsZero() {
			queueWait.Record(ctx, time.Since(t.SubmittedAt).Seconds(),
				metric.WithAttributes(attribute.String("task_name", t.Name)))
		}

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("task_name", t.Name),
			attribute.Bool("queued", t.Queued),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)

		return err
	}
}
