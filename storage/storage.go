// Package storage defines the recording target for metric data.
//
// Every metric type writes its values here, keyed by the ping the value
// is sent in and the metric's identifier ("category.name"). All writes
// happen inside dispatched tasks, so the store only ever sees post-init
// traffic in submission order. Reads exist for the metric test APIs and
// for ping assembly.
package storage

// RecordedEvent is a single occurrence of an event metric.
type RecordedEvent struct {
	// Timestamp is milliseconds relative to the SDK start time.
	Timestamp int64 `json:"timestamp"`

	// Category and Name identify the event metric.
	Category string `json:"category"`
	Name     string `json:"name"`

	// Extra holds the validated extra key/value pairs, if any.
	Extra map[string]string `json:"extra,omitempty"`
}

// Store is the metric storage contract. Implementations must be safe
// for concurrent use: metric tasks write on the worker lane while test
// APIs read from arbitrary goroutines.
type Store interface {
	// AddCounter adds delta to a counter, creating it at zero first.
	AddCounter(pingName, metricID string, delta int32)
	// Counter returns the current counter value.
	Counter(pingName, metricID string) (int32, bool)

	// SetString stores a string value, replacing any previous value.
	SetString(pingName, metricID, value string)
	// String returns the current string value.
	String(pingName, metricID string) (string, bool)

	// SetBoolean stores a boolean value, replacing any previous value.
	SetBoolean(pingName, metricID string, value bool)
	// Boolean returns the current boolean value.
	Boolean(pingName, metricID string) (bool, bool)

	// RecordEvent appends an event occurrence.
	RecordEvent(pingName, metricID string, ev RecordedEvent)
	// Events returns the recorded events in record order. It does not
	// clear the stored values.
	Events(pingName, metricID string) []RecordedEvent

	// SnapshotPing returns all data stored for a ping, organized by
	// metric kind, and optionally clears it. An empty snapshot returns
	// a nil map.
	SnapshotPing(pingName string, clear bool) map[string]any

	// Clear wipes all stored data for every ping.
	Clear()
}
