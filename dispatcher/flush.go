package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrFlushTimeout is returned by Flush when the drain does not complete
// within the flush timeout and the queued backlog is abandoned.
var ErrFlushTimeout = errors.New("dispatcher: flush timed out")

// flight tracks one flush attempt. The cancelled flag is the only
// cross-goroutine signal into the drain unit; it is checked between
// tasks, never mid-task (no partial task execution).
type flight struct {
	cancelled atomic.Bool
	done      chan struct{}
	drained   int
}

// Flush performs the one-shot transition from queueing to live mode,
// draining tasks accumulated during the queueing window in their original
// submission order.
//
// The drain is scheduled on the worker lane as a single ordered unit of
// work, so a task submitted concurrently under live semantics can run
// before or after the whole drain, never interleaved within it. After the
// last queued task executes, the mode flips to live and the queue closes.
//
// The caller blocks until the drain completes, the flush timeout elapses,
// or ctx is done. On timeout or cancellation the mode is force-flipped to
// live, undrained tasks are abandoned (cleared, never executed later),
// the condition is reported, and ErrFlushTimeout is returned. The
// dispatcher keeps operating either way.
//
// Concurrent calls serialize: a second Flush waits for the first and then
// returns immediately because the mode is already live.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	if d.Mode() != ModeQueueing {
		return nil
	}

	start := time.Now()
	fl := &flight{done: make(chan struct{})}

	d.lane.RunAsync(func() {
		defer close(fl.done)
		for !fl.cancelled.Load() {
			t, ok := d.queue.Pop()
			if !ok {
				break
			}
			d.execute(t)
			fl.drained++
		}
		if !fl.cancelled.Load() {
			d.becomeLive()
		}
	})

	timer := time.NewTimer(d.flushTimeout)
	defer timer.Stop()

	select {
	case <-fl.done:
		elapsed := time.Since(start)
		d.extensions.EmitFlushCompleted(ctx, fl.drained, elapsed)
		d.logger.Debug("pre-init task queue flushed",
			slog.Int("drained", fl.drained),
			slog.Duration("elapsed", elapsed),
		)
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	// Deadline elapsed. Stop the drain at the next task boundary and
	// force the transition so initialization cannot hang.
	fl.cancelled.Store(true)
	abandoned, flipped := d.becomeLive()
	if !flipped {
		// The drain finished in the instant the timer fired; it already
		// performed the transition. Treat as a normal completion.
		<-fl.done
		d.extensions.EmitFlushCompleted(ctx, fl.drained, time.Since(start))
		return nil
	}

	d.extensions.EmitFlushTimedOut(ctx, abandoned)
	d.logger.Warn("flush timed out, abandoning queued tasks",
		slog.Duration("timeout", d.flushTimeout),
		slog.Int("abandoned", abandoned),
	)
	return fmt.Errorf("%w after %s (%d tasks abandoned)", ErrFlushTimeout, d.flushTimeout, abandoned)
}

// becomeLive flips the mode to live and closes the queue. The CAS guard
// ensures exactly one of the drain unit and the timeout path performs
// the transition. Returns how many undrained tasks were discarded.
func (d *Dispatcher) becomeLive() (abandoned int, flipped bool) {
	if !d.mode.CompareAndSwap(int32(ModeQueueing), int32(ModeLive)) {
		return 0, false
	}
	return d.queue.CloseAndClear(), true
}
