package metrics

import "github.com/xraph/beacon/task"

// Boolean is a metric holding a single true/false value.
type Boolean struct {
	meta CommonMetricData
	rec  *Recorder
}

// NewBoolean creates a boolean metric.
func NewBoolean(rec *Recorder, meta CommonMetricData) *Boolean {
	return &Boolean{meta: meta, rec: rec}
}

// Set stores value in every ping the metric is sent in, replacing any
// previous value.
func (b *Boolean) Set(value bool) {
	if b.meta.Disabled {
		return
	}

	metricID := b.meta.Identifier()
	pings := b.meta.SendInPings
	b.rec.disp.Submit(task.Task{
		Name: "boolean.set",
		Run: func() {
			for _, ping := range pings {
				b.rec.store.SetBoolean(ping, metricID, value)
			}
		},
	})
}

// TestHasValue reports whether a value is stored for the given ping.
// It does not clear the stored value. Test-only.
func (b *Boolean) TestHasValue(pingName string) bool {
	_, ok := b.rec.store.Boolean(pingName, b.meta.Identifier())
	return ok
}

// TestGetValue returns the stored value for the given ping, or false.
// It does not clear the stored value. Test-only.
func (b *Boolean) TestGetValue(pingName string) bool {
	v, _ := b.rec.store.Boolean(pingName, b.meta.Identifier())
	return v
}
