// Package metrics provides the metric types recorded through the
// dispatcher: counters, strings, booleans, and events.
//
// Every recording call wraps its storage mutation in a task and submits
// it to the dispatcher, so calls made before the SDK finishes
// initializing are buffered and replayed in order rather than lost. The
// TestGetValue/TestHasValue accessors read storage directly and never
// clear stored values; with testing mode enabled on the dispatcher,
// recording calls are synchronous and the accessors are race-free.
package metrics

import (
	"log/slog"
	"time"

	"github.com/xraph/beacon/dispatcher"
	"github.com/xraph/beacon/storage"
)

// CommonMetricData is the identifying metadata shared by all metric types.
type CommonMetricData struct {
	// Category groups related metrics, e.g. "ui".
	Category string

	// Name identifies the metric within its category, e.g. "clicks".
	Name string

	// SendInPings lists the pings this metric's data is sent in.
	SendInPings []string

	// Disabled metrics accept recording calls but store nothing.
	Disabled bool
}

// Identifier returns the storage key for this metric, "category.name",
// or just "name" for category-less metrics.
func (c CommonMetricData) Identifier() string {
	if c.Category == "" {
		return c.Name
	}
	return c.Category + "." + c.Name
}

// Recorder binds metric types to the dispatcher and storage they record
// through. One Recorder is shared by all metrics of an SDK instance.
type Recorder struct {
	disp   *dispatcher.Dispatcher
	store  storage.Store
	logger *slog.Logger

	// epoch anchors event timestamps: they are reported as milliseconds
	// since the Recorder was created.
	epoch time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(disp *dispatcher.Dispatcher, store storage.Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		disp:   disp,
		store:  store,
		logger: logger,
		epoch:  time.Now(),
	}
}

// elapsedMillis returns the event timestamp for the current moment.
func (r *Recorder) elapsedMillis() int64 {
	return time.Since(r.epoch).Milliseconds()
}
