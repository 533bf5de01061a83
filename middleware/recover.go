package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/beacon/task"
)

// Recover returns middleware that recovers from panics in the task chain.
// Panics are converted to errors and logged with a stack trace. A
// panicking task must never take down the worker lane or the host
// application recording telemetry.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, t *task.Task, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("task panicked",
					slog.String("task_name", t.Name),
					slog.Uint64("seq", t.Seq),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in task %s: %v", t.Name, r)
			}
		}()
		return next(ctx)
	}
}
