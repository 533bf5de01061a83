package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/beacon/task"
)

// Logging returns middleware that logs task start and completion at
// debug level. Tasks are high-frequency, so this is intended for
// development and diagnosis rather than always-on production logging.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, t *task.Task, next Handler) error {
		logger.Debug("task started",
			slog.String("task_name", t.Name),
			slog.Uint64("seq", t.Seq),
			slog.Bool("queued", t.Queued),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("task failed",
				slog.String("task_name", t.Name),
				slog.Uint64("seq", t.Seq),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("task completed",
				slog.String("task_name", t.Name),
				slog.Uint64("seq", t.Seq),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
