package metrics

import (
	"log/slog"

	"github.com/xraph/beacon/task"
)

// Counter is a metric that can only be incremented.
type Counter struct {
	meta CommonMetricData
	rec  *Recorder
}

// NewCounter creates a counter metric.
func NewCounter(rec *Recorder, meta CommonMetricData) *Counter {
	return &Counter{meta: meta, rec: rec}
}

// Add increments the counter by delta in every ping the metric is sent
// in. A non-positive delta is reported and recorded as nothing.
func (c *Counter) Add(delta int32) {
	if c.meta.Disabled {
		return
	}
	if delta <= 0 {
		c.rec.logger.Warn("counter delta must be positive",
			slog.String("metric", c.meta.Identifier()),
			slog.Int("delta", int(delta)),
		)
		return
	}

	metricID := c.meta.Identifier()
	pings := c.meta.SendInPings
	c.rec.disp.Submit(task.Task{
		Name: "counter.add",
		Run: func() {
			for _, ping := range pings {
				c.rec.store.AddCounter(ping, metricID, delta)
			}
		},
	})
}

// TestHasValue reports whether a value is stored for the given ping.
// It does not clear the stored value. Test-only.
func (c *Counter) TestHasValue(pingName string) bool {
	_, ok := c.rec.store.Counter(pingName, c.meta.Identifier())
	return ok
}

// TestGetValue returns the stored value for the given ping, or zero.
// It does not clear the stored value. Test-only.
func (c *Counter) TestGetValue(pingName string) int32 {
	v, _ := c.rec.store.Counter(pingName, c.meta.Identifier())
	return v
}
