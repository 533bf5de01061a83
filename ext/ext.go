// Package ext defines the extension system for Beacon.
// Extensions are notified of SDK lifecycle events (task dropped, flush
// completed, ping submitted, etc.) and can react to them — logging,
// metrics, tracing, etc.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"
	"time"

	"github.com/xraph/beacon/id"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Dispatcher lifecycle hooks
// ──────────────────────────────────────────────────

// TaskDropped is called when the pre-init queue is at capacity and a
// newly submitted task is discarded.
type TaskDropped interface {
	OnTaskDropped(ctx context.Context, taskName string, queueLen int) error
}

// FlushCompleted is called after the pre-init queue drains normally.
type FlushCompleted interface {
	OnFlushCompleted(ctx context.Context, drained int, elapsed time.Duration) error
}

// FlushTimedOut is called when a flush exceeds its deadline and the
// remaining queued tasks are abandoned.
type FlushTimedOut interface {
	OnFlushTimedOut(ctx context.Context, abandoned int) error
}

// ──────────────────────────────────────────────────
// SDK lifecycle hooks
// ──────────────────────────────────────────────────

// PingSubmitted is called after a ping document is assembled and handed
// to the uploader.
type PingSubmitted interface {
	OnPingSubmitted(ctx context.Context, pingName string, docID id.PingID) error
}

// UploadToggled is called when the upload-enabled flag changes.
type UploadToggled interface {
	OnUploadToggled(ctx context.Context, enabled bool) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
