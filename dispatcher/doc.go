// Package dispatcher provides the deferred-task dispatcher at the heart
// of the Beacon SDK.
//
// The SDK accepts metric-recording calls before its backing storage has
// finished initializing. The dispatcher makes that safe: while in
// [ModeQueueing] (the initial mode), submitted tasks are buffered in a
// capacity-bounded FIFO instead of executing. Once initialization
// completes, [Dispatcher.Flush] drains the buffer in original submission
// order on the worker lane and flips the dispatcher to [ModeLive], where
// tasks execute immediately. The transition is one-way for the dispatcher's
// lifetime, except for the test-only [Dispatcher.SetTaskQueueing].
//
// # Worker Lane
//
// All tasks execute on a single [Lane] — one goroutine consuming a channel —
// so FIFO ordering is structural rather than relied upon. [Lane.RunAsync]
// returns a [Handle] the caller can wait on; [Lane.RunSync] blocks until
// the task has run on the lane.
//
// # Testing Mode
//
// With [Dispatcher.SetTestingMode] enabled, live-mode submissions run
// synchronously on the lane, blocking the caller until the task's effects
// are observable. Tasks queued while in testing mode are drained inline on
// the lane for the same deterministic semantics.
//
// # Failure Modes
//
// Both failure modes are non-fatal and locally absorbed:
//
//   - queue overflow: the queue is at capacity, the incoming task is
//     dropped and reported (ext.TaskDropped);
//   - flush timeout: the drain did not finish within the flush timeout,
//     the mode is force-flipped to live, undrained tasks are abandoned
//     and the condition is reported (ext.FlushTimedOut).
//
// # Ordering
//
// Queued tasks drain in exact submission order. Tasks submitted while the
// drain is in progress execute under live semantics and may run before
// queued tasks that have not drained yet. That relaxation is deliberate:
// serializing new live traffic behind the backlog would reintroduce the
// startup stall the dispatcher exists to avoid.
package dispatcher
