package dispatcher

import (
	"errors"
	"sync"

	"github.com/xraph/beacon/task"
)

// ErrQueueFull is reported when the pre-init queue is at capacity and a
// newly submitted task is dropped.
var ErrQueueFull = errors.New("dispatcher: task queue at capacity")

// errQueueClosed signals that the queue was closed by a completed flush.
// Submit treats it as an instruction to run the task live instead.
var errQueueClosed = errors.New("dispatcher: task queue closed")

// taskQueue is the capacity-bounded FIFO holding tasks submitted before
// initialization completes. Many producers append concurrently; exactly
// one consumer (the flush drain unit on the lane) pops. The lock is held
// only for the append/pop itself, never across task execution.
type taskQueue struct {
	mu       sync.Mutex
	entries  []*task.Task
	capacity int
	closed   bool
}

func newTaskQueue(capacity int) *taskQueue {
	return &taskQueue{capacity: capacity}
}

// Append adds a task to the tail. The length check and the append happen
// under one lock acquisition, so the capacity bound is exact under
// concurrent producers. Returns ErrQueueFull at capacity and
// errQueueClosed after a flush has closed the queue.
func (q *taskQueue) Append(t *task.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errQueueClosed
	}
	if len(q.entries) >= q.capacity {
		return ErrQueueFull
	}
	q.entries = append(q.entries, t)
	return nil
}

// Pop removes and returns the head task. Returns false when the queue is
// empty or closed.
func (q *taskQueue) Pop() (*task.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.entries) == 0 {
		return nil, false
	}
	t := q.entries[0]
	q.entries[0] = nil // release the reference for GC
	q.entries = q.entries[1:]
	return t, true
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// CloseAndClear marks the queue closed and discards any remaining
// entries, returning how many were discarded. Appends after close fall
// through to live execution in Submit, so no accepted task is ever lost
// silently — only abandoned explicitly on flush timeout.
func (q *taskQueue) CloseAndClear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.entries)
	q.entries = nil
	q.closed = true
	return n
}

// Reopen clears the queue and accepts appends again. Test-only, used by
// SetTaskQueueing to re-enter queueing mode.
func (q *taskQueue) Reopen() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = nil
	q.closed = false
}
