// Package middleware provides composable middleware for task execution.
//
// The dispatcher runs every task through a middleware chain on the worker
// lane. Middleware observe execution synchronously and can short-circuit
// on error, recover panics, log, or record telemetry about the telemetry.
//
// # Built-in Middleware
//
//   - [Recover] — converts panics to errors and logs the stack (always
//     installed outermost by the dispatcher)
//   - [Logging] — debug-level start/finish logging
//   - [Metrics] — OTel duration histogram, execution counter, and
//     queue-wait histogram for tasks deferred during initialization
//   - [Tracing] — OTel span per task execution
//
// # Composition
//
//	mw := middleware.Chain(
//	    middleware.Logging(logger),
//	    middleware.Metrics(),
//	    middleware.Tracing(),
//	)
//
// Pass additional middleware to the dispatcher with
// dispatcher.WithMiddleware.
package middleware
