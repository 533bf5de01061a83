package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/beacon/id"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type taskDroppedEntry struct {
	name string
	hook TaskDropped
}

type flushCompletedEntry struct {
	name string
	hook FlushCompleted
}

type flushTimedOutEntry struct {
	name string
	hook FlushTimedOut
}

type pingSubmittedEntry struct {
	name string
	hook PingSubmitted
}

type uploadToggledEntry struct {
	name string
	hook UploadToggled
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	taskDropped    []taskDroppedEntry
	flushCompleted []flushCompletedEntry
	flushTimedOut  []flushTimedOutEntry
	pingSubmitted  []pingSubmittedEntry
	uploadToggled  []uploadToggledEntry
	shutdown       []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(TaskDropped); ok {
		r.taskDropped = append(r.taskDropped, taskDroppedEntry{name, h})
	}
	if h, ok := e.(FlushCompleted); ok {
		r.flushCompleted = append(r.flushCompleted, flushCompletedEntry{name, h})
	}
	if h, ok := e.(FlushTimedOut); ok {
		r.flushTimedOut = append(r.flushTimedOut, flushTimedOutEntry{name, h})
	}
	if h, ok := e.(PingSubmitted); ok {
		r.pingSubmitted = append(r.pingSubmitted, pingSubmittedEntry{name, h})
	}
	if h, ok := e.(UploadToggled); ok {
		r.uploadToggled = append(r.uploadToggled, uploadToggledEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns the registered extensions in registration order.
func (r *Registry) Extensions() []Extension {
	return r.extensions
}

// ──────────────────────────────────────────────────
// Dispatcher event emitters
// ──────────────────────────────────────────────────

// EmitTaskDropped notifies all extensions that implement TaskDropped.
func (r *Registry) EmitTaskDropped(ctx context.Context, taskName string, queueLen int) {
	for _, e := range r.taskDropped {
		if err := e.hook.OnTaskDropped(ctx, taskName, queueLen); err != nil {
			r.logHookError("OnTaskDropped", e.name, err)
		}
	}
}

// EmitFlushCompleted notifies all extensions that implement FlushCompleted.
func (r *Registry) EmitFlushCompleted(ctx context.Context, drained int, elapsed time.Duration) {
	for _, e := range r.flushCompleted {
		if err := e.hook.OnFlushCompleted(ctx, drained, elapsed); err != nil {
			r.logHookError("OnFlushCompleted", e.name, err)
		}
	}
}

// EmitFlushTimedOut notifies all extensions that implement FlushTimedOut.
func (r *Registry) EmitFlushTimedOut(ctx context.Context, abandoned int) {
	for _, e := range r.flushTimedOut {
		if err := e.hook.OnFlushTimedOut(ctx, abandoned); err != nil {
			r.logHookError("OnFlushTimedOut", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// SDK event emitters
// ──────────────────────────────────────────────────

// EmitPingSubmitted notifies all extensions that implement PingSubmitted.
func (r *Registry) EmitPingSubmitted(ctx context.Context, pingName string, docID id.PingID) {
	for _, e := range r.pingSubmitted {
		if err := e.hook.OnPingSubmitted(ctx, pingName, docID); err != nil {
			r.logHookError("OnPingSubmitted", e.name, err)
		}
	}
}

// EmitUploadToggled notifies all extensions that implement UploadToggled.
func (r *Registry) EmitUploadToggled(ctx context.Context, enabled bool) {
	for _, e := range r.uploadToggled {
		if err := e.hook.OnUploadToggled(ctx, enabled); err != nil {
			r.logHookError("OnUploadToggled", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the pipeline.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
