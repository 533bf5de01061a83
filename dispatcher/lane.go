package dispatcher

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// laneBuffer is the channel capacity of the worker lane. Producers only
// block on RunAsync when this many tasks are already pending.
const laneBuffer = 128

// Handle represents the completion of a single asynchronously dispatched
// task. Callers (notably test code) can wait on it to avoid racing
// against later assertions.
type Handle struct {
	done chan struct{}
}

// Done returns a channel closed when the task has finished executing.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task completes or the context is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// laneItem pairs a task closure with its completion signal.
type laneItem struct {
	run  func()
	done chan struct{}
}

// Lane is the single logical execution context that runs all dispatched
// tasks. Exactly one goroutine consumes the channel, so work handed to
// the lane executes in hand-off order.
type Lane struct {
	tasks  chan laneItem
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewLane creates a worker lane. Call Start before dispatching work.
func NewLane(logger *slog.Logger) *Lane {
	return &Lane{
		tasks:  make(chan laneItem, laneBuffer),
		logger: logger,
	}
}

// Start launches the lane goroutine. It returns immediately and is a
// no-op if the lane is already running.
func (l *Lane) Start(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return nil
	}
	l.running = true
	l.stopCh = make(chan struct{})

	l.wg.Add(1)
	go l.runLoop(l.stopCh)
	return nil
}

// Stop signals the lane to finish its buffered work and exit, waiting up
// to the context deadline. A task that never returns cannot be cancelled;
// in that case Stop gives up at the deadline and returns the context error.
func (l *Lane) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	close(l.stopCh)
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		l.logger.Warn("worker lane shutdown timed out")
		return ctx.Err()
	}
}

// RunAsync schedules fn for execution on the lane and returns a Handle
// the caller may wait on.
func (l *Lane) RunAsync(fn func()) *Handle {
	h := &Handle{done: make(chan struct{})}
	l.tasks <- laneItem{run: fn, done: h.done}
	return h
}

// RunSync executes fn on the lane, blocking the caller until it has run.
// Must not be called from the lane goroutine itself.
func (l *Lane) RunSync(fn func()) {
	h := l.RunAsync(fn)
	<-h.done
}

// Pending returns the number of tasks buffered but not yet started.
func (l *Lane) Pending() int { return len(l.tasks) }

func (l *Lane) runLoop(stopCh <-chan struct{}) {
	defer l.wg.Done()

	for {
		select {
		case item := <-l.tasks:
			l.runItem(item)
		case <-stopCh:
			// Drain what is already buffered, then exit.
			for {
				select {
				case item := <-l.tasks:
					l.runItem(item)
				default:
					return
				}
			}
		}
	}
}

// runItem executes one task, keeping the lane goroutine alive across
// panics and guaranteeing the completion signal fires.
func (l *Lane) runItem(item laneItem) {
	defer close(item.done)
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("lane task panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	item.run()
}
