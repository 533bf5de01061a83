package observability

import (
	"context"
	"time"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/id"
)

// Compile-time interface checks.
var (
	_ ext.Extension      = (*MetricsExtension)(nil)
	_ ext.TaskDropped    = (*MetricsExtension)(nil)
	_ ext.FlushCompleted = (*MetricsExtension)(nil)
	_ ext.FlushTimedOut  = (*MetricsExtension)(nil)
	_ ext.PingSubmitted  = (*MetricsExtension)(nil)
	_ ext.UploadToggled  = (*MetricsExtension)(nil)
)

// MetricsExtension records SDK-wide lifecycle metrics via go-utils
// MetricFactory. Register it as a Beacon extension to automatically
// track pre-init overflow, flush outcomes, ping submission rates, and
// upload opt-out flips.
type MetricsExtension struct {
	TaskDropped    gu.Counter
	FlushCompleted gu.Counter
	FlushTimedOut  gu.Counter
	TasksDrained   gu.Counter
	TasksAbandoned gu.Counter
	PingSubmitted  gu.Counter
	UploadEnabled  gu.Counter
	UploadDisabled gu.Counter
}

// NewMetricsExtension creates a MetricsExtension using a default metrics collector.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithFactory(gu.NewMetricsCollector("beacon/observability"))
}

// NewMetricsExtensionWithFactory creates a MetricsExtension with the
// provided MetricFactory. Use gu.NewMetricsCollector for testing.
func NewMetricsExtensionWithFactory(factory gu.MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		TaskDropped:    factory.Counter("beacon.task.dropped"),
		FlushCompleted: factory.Counter("beacon.flush.completed"),
		FlushTimedOut:  factory.Counter("beacon.flush.timeout"),
		TasksDrained:   factory.Counter("beacon.flush.tasks_drained"),
		TasksAbandoned: factory.Counter("beacon.flush.tasks_abandoned"),
		PingSubmitted:  factory.Counter("beacon.ping.submitted"),
		UploadEnabled:  factory.Counter("beacon.upload.enabled"),
		UploadDisabled: factory.Counter("beacon.upload.disabled"),
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnTaskDropped implements ext.TaskDropped.
func (m *MetricsExtension) OnTaskDropped(_ context.Context, _ string, _ int) error {
	m.TaskDropped.Inc()
	return nil
}

// OnFlushCompleted implements ext.FlushCompleted.
func (m *MetricsExtension) OnFlushCompleted(_ context.Context, drained int, _ time.Duration) error {
	m.FlushCompleted.Inc()
	m.TasksDrained.Add(float64(drained))
	return nil
}

// OnFlushTimedOut implements ext.FlushTimedOut.
func (m *MetricsExtension) OnFlushTimedOut(_ context.Context, abandoned int) error {
	m.FlushTimedOut.Inc()
	m.TasksAbandoned.Add(float64(abandoned))
	return nil
}

// OnPingSubmitted implements ext.PingSubmitted.
func (m *MetricsExtension) OnPingSubmitted(_ context.Context, _ string, _ id.PingID) error {
	m.PingSubmitted.Inc()
	return nil
}

// OnUploadToggled implements ext.UploadToggled.
func (m *MetricsExtension) OnUploadToggled(_ context.Context, enabled bool) error {
	if enabled {
		m.UploadEnabled.Inc()
	} else {
		m.UploadDisabled.Inc()
	}
	return nil
}
