package metrics

import (
	"log/slog"

	"github.com/xraph/beacon/task"
)

// maxStringLength is the longest value a string metric stores. Longer
// values are truncated and the truncation is reported.
const maxStringLength = 100

// String is a metric holding a single short string value.
type String struct {
	meta CommonMetricData
	rec  *Recorder
}

// NewString creates a string metric.
func NewString(rec *Recorder, meta CommonMetricData) *String {
	return &String{meta: meta, rec: rec}
}

// Set stores value in every ping the metric is sent in, replacing any
// previous value. Values longer than 100 characters are truncated.
func (s *String) Set(value string) {
	if s.meta.Disabled {
		return
	}
	if len(value) > maxStringLength {
		s.rec.logger.Warn("string value truncated",
			slog.String("metric", s.meta.Identifier()),
			slog.Int("length", len(value)),
			slog.Int("max", maxStringLength),
		)
		value = value[:maxStringLength]
	}

	metricID := s.meta.Identifier()
	pings := s.meta.SendInPings
	s.rec.disp.Submit(task.Task{
		Name: "string.set",
		Run: func() {
			for _, ping := range pings {
				s.rec.store.SetString(ping, metricID, value)
			}
		},
	})
}

// TestHasValue reports whether a value is stored for the given ping.
// It does not clear the stored value. Test-only.
func (s *String) TestHasValue(pingName string) bool {
	_, ok := s.rec.store.String(pingName, s.meta.Identifier())
	return ok
}

// TestGetValue returns the stored value for the given ping, or "".
// It does not clear the stored value. Test-only.
func (s *String) TestGetValue(pingName string) string {
	v, _ := s.rec.store.String(pingName, s.meta.Identifier())
	return v
}
