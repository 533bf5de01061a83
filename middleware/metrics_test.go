package middleware_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	mw "github.com/xraph/beacon/middleware"
)

func setupTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestMetrics_RecordsDuration(t *testing.T) {
	reader, mp := setupTestMeter()
	meter := mp.Meter("test")
	m := mw.MetricsWithMeter(meter)
	tk := newTestTask()

	_ = m(context.Background(), tk, func(_ context.Context) error {
		return nil
	})

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "beacon.task.duration")
	if metric == nil {
		t.Fatal("beacon.task.duration metric not found")
	}

	hist, ok := metric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected Histogram[float64] data type")
	}
	if len(hist.DataPoints) != 1 {
		t.Fatalf("expected 1 data point, got %d", len(hist.DataPoints))
	}

	dp := hist.DataPoints[0]
	if status, found := dp.Attributes.Value(attribute.Key("status")); !found || status.AsString() != "ok" {
		t.Errorf("status attribute = %v, want %q", status, "ok")
	}
}

func TestMetrics_CountsExecutions(t *testing.T) {
	reader, mp := setupTestMeter()
	meter := mp.Meter("test")
	m := mw.MetricsWithMeter(meter)
	tk := newTestTask()

	for range 3 {
		_ = m(context.Background(), tk, func(_ context.Context) error {
			return nil
		})
	}

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "beacon.task.executions")
	if metric == nil {
		t.Fatal("beacon.task.executions metric not found")
	}

	sum, ok := metric.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected Sum[int64] data type")
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("executions total = %d, want 3", total)
	}
}

func TestMetrics_ErrorStatus(t *testing.T) {
	reader, mp := setupTestMeter()
	meter := mp.Meter("test")
	m := mw.MetricsWithMeter(meter)
	tk := newTestTask()

	_ = m(context.Background(), tk, func(_ context.Context) error {
		return errors.New("task error")
	})

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "beacon.task.executions")
	if metric == nil {
		t.Fatal("beacon.task.executions metric not found")
	}

	sum, ok := metric.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected Sum[int64] data type")
	}
	dp := sum.DataPoints[0]
	if status, found := dp.Attributes.Value(attribute.Key("status")); !found || status.AsString() != "error" {
		t.Errorf("status attribute = %v, want %q", status, "error")
	}
}

func TestMetrics_QueueWaitForQueuedTasks(t *testing.T) {
	reader, mp := setupTestMeter()
	meter := mp.Meter("test")
	m := mw.MetricsWithMeter(meter)

	tk := newTestTask() // Queued = true, SubmittedAt set
	_ = m(context.Background(), tk, func(_ context.Context) error {
		return nil
	})

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "beacon.task.queue_wait")
	if metric == nil {
		t.Fatal("beacon.task.queue_wait metric not found")
	}

	hist, ok := metric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected Histogram[float64] data type")
	}
	if len(hist.DataPoints) != 1 {
		t.Fatalf("expected 1 data point, got %d", len(hist.DataPoints))
	}
}

func TestMetrics_NoQueueWaitForLiveTasks(t *testing.T) {
	reader, mp := setupTestMeter()
	meter := mp.Meter("test")
	m := mw.MetricsWithMeter(meter)

	tk := newTestTask()
	tk.Queued = false
	_ = m(context.Background(), tk, func(_ context.Context) error {
		return nil
	})

	rm := collectMetrics(t, reader)
	if metric := findMetric(rm, "beacon.task.queue_wait"); metric != nil {
		t.Error("queue_wait must not be recorded for live tasks")
	}
}
