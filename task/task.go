// Package task defines the unit of work processed by the dispatcher.
//
// A Task is an opaque, side-effecting closure with no return value. It
// captures everything it needs at submission time. Beyond the Run closure
// itself, a Task carries metadata stamped by the dispatcher at submission —
// a monotonic sequence number, the submission time, and whether the task
// was queued before the SDK finished initializing. Middleware reads this
// metadata; it never mutates it.
package task

import "time"

// Task is a single unit of work.
type Task struct {
	// Name is a short diagnostic label for the task, e.g. "counter.add"
	// or "ping.submit". Used in logs, metrics, and spans. Optional.
	Name string

	// Run executes the task. It must not be nil.
	Run func()

	// Seq is the dispatcher-assigned submission sequence number.
	// Monotonically increasing per dispatcher lifetime.
	Seq uint64

	// SubmittedAt is when the task entered the dispatcher.
	SubmittedAt time.Time

	// Queued reports whether the task was buffered in the pre-init queue
	// before executing (as opposed to dispatched directly while live).
	Queued bool

	// Sync reports whether the task was submitted with testing mode
	// enabled and therefore carries synchronous execution semantics.
	Sync bool
}
