// Package beacon provides a client-side telemetry SDK for Go. It offers
// metric types (counters, strings, booleans, events), named pings, and a
// deferred-task dispatcher that makes every API safe to call before
// initialization completes.
//
// Beacon is designed as a library, not a service. Import it, register
// pings and metrics, and call Initialize once at startup.
//
// # Quick Start
//
//	sdk, err := beacon.New(
//	    beacon.WithAppID("my-app"),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := sdk.Initialize(ctx); err != nil {
//	    return err
//	}
//	defer sdk.Shutdown(ctx)
//
// # Architecture
//
// Every recording and submission call is wrapped in a task and handed to
// the dispatcher. Before Initialize the dispatcher buffers tasks in a
// bounded queue; Initialize flushes the queue in submission order and
// switches to live execution on a single worker goroutine. Recording
// calls therefore never block the caller and never race initialization.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package beacon
