// Package observability provides a metrics extension for Beacon. The
// MetricsExtension implements lifecycle hooks to record system-wide
// counters for dropped tasks, flush outcomes, ping submissions, and
// upload opt-out changes.
//
// For per-task tracing and metrics, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
