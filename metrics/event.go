package metrics

import (
	"log/slog"
	"slices"

	"github.com/xraph/beacon/storage"
	"github.com/xraph/beacon/task"
)

// Event is a metric recording discrete occurrences with optional extra
// key/value pairs and a timestamp relative to SDK start.
type Event struct {
	meta             CommonMetricData
	allowedExtraKeys []string
	rec              *Recorder
}

// NewEvent creates an event metric. Only the listed extra keys are
// accepted by Record.
func NewEvent(rec *Recorder, meta CommonMetricData, allowedExtraKeys []string) *Event {
	return &Event{meta: meta, allowedExtraKeys: allowedExtraKeys, rec: rec}
}

// Record records an occurrence of the event in every ping the metric is
// sent in. The timestamp is captured at the call, not at execution, so
// events deferred during initialization keep their true relative timing.
//
// Every key in extra must be listed in the metric's allowed extra keys;
// if any key is not, an error is reported and no event is recorded.
func (e *Event) Record(extra map[string]string) {
	if e.meta.Disabled {
		return
	}

	for key := range extra {
		if !slices.Contains(e.allowedExtraKeys, key) {
			e.rec.logger.Error("invalid extra key, event not recorded",
				slog.String("metric", e.meta.Identifier()),
				slog.String("key", key),
			)
			return
		}
	}

	// Copy the extras so later caller mutation can't race the task.
	var extraCopy map[string]string
	if len(extra) > 0 {
		extraCopy = make(map[string]string, len(extra))
		for k, v := range extra {
			extraCopy[k] = v
		}
	}

	ev := storage.RecordedEvent{
		Timestamp: e.rec.elapsedMillis(),
		Category:  e.meta.Category,
		Name:      e.meta.Name,
		Extra:     extraCopy,
	}

	metricID := e.meta.Identifier()
	pings := e.meta.SendInPings
	e.rec.disp.Submit(task.Task{
		Name: "event.record",
		Run: func() {
			for _, ping := range pings {
				e.rec.store.RecordEvent(ping, metricID, ev)
			}
		},
	})
}

// TestHasValue reports whether any events are stored for the given ping.
// It does not clear the stored values. Test-only.
func (e *Event) TestHasValue(pingName string) bool {
	return len(e.rec.store.Events(pingName, e.meta.Identifier())) > 0
}

// TestGetValue returns the stored events for the given ping in record
// order. It does not clear the stored values. Test-only.
func (e *Event) TestGetValue(pingName string) []storage.RecordedEvent {
	return e.rec.store.Events(pingName, e.meta.Identifier())
}
