package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/middleware"
	"github.com/xraph/beacon/task"
)

// Defaults for the dispatcher configuration constants. Overridable only
// through options, primarily for testing.
const (
	DefaultQueueCapacity = 100
	DefaultFlushTimeout  = 5000 * time.Millisecond
)

// Mode is the dispatcher-wide execution mode.
type Mode int32

const (
	// ModeQueueing buffers submitted tasks until Flush runs. This is the
	// initial mode.
	ModeQueueing Mode = iota

	// ModeLive executes submitted tasks immediately on the worker lane.
	ModeLive
)

// String returns the mode name for logs.
func (m Mode) String() string {
	switch m {
	case ModeQueueing:
		return "queueing"
	case ModeLive:
		return "live"
	default:
		return "unknown"
	}
}

// Dispatcher decides how and when a submitted task runs. It owns the
// pre-init task queue, the worker lane, and the mode/testing flags
// exclusively; no other component mutates them.
type Dispatcher struct {
	logger     *slog.Logger
	extensions *ext.Registry
	lane       *Lane
	queue      *taskQueue
	mw         middleware.Middleware
	userMW     []middleware.Middleware

	capacity     int
	flushTimeout time.Duration

	mode    atomic.Int32
	testing atomic.Bool
	seq     atomic.Uint64

	// flushMu serializes Flush calls so the queue is never drained by two
	// consumers at once.
	flushMu sync.Mutex

	// overflowLog throttles queue-overflow diagnostics under sustained
	// overload. The TaskDropped hook still fires for every drop.
	overflowLog *rate.Limiter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueCapacity overrides the pre-init queue capacity (default 100).
func WithQueueCapacity(n int) Option {
	return func(d *Dispatcher) { d.capacity = n }
}

// WithFlushTimeout overrides the maximum time Flush blocks its caller
// waiting for the drain (default 5s).
func WithFlushTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.flushTimeout = timeout }
}

// WithMiddleware appends middleware to the task execution chain. The
// built-in panic recovery middleware always runs outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(d *Dispatcher) { d.userMW = append(d.userMW, mws...) }
}

// New creates a Dispatcher in queueing mode. Call Start to launch the
// worker lane before any task can execute.
func New(logger *slog.Logger, extensions *ext.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:       logger,
		extensions:   extensions,
		capacity:     DefaultQueueCapacity,
		flushTimeout: DefaultFlushTimeout,
		overflowLog:  rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.lane = NewLane(logger)
	d.queue = newTaskQueue(d.capacity)
	d.mw = middleware.Chain(append(
		[]middleware.Middleware{middleware.Recover(logger)},
		d.userMW...,
	)...)
	d.mode.Store(int32(ModeQueueing))
	return d
}

// Start launches the worker lane.
func (d *Dispatcher) Start(ctx context.Context) error {
	return d.lane.Start(ctx)
}

// Stop shuts down the worker lane, waiting up to the context deadline
// for buffered tasks to finish.
func (d *Dispatcher) Stop(ctx context.Context) error {
	return d.lane.Stop(ctx)
}

// Mode returns the current dispatcher mode.
func (d *Dispatcher) Mode() Mode {
	return Mode(d.mode.Load())
}

// QueueLen returns the number of tasks currently buffered in the
// pre-init queue.
func (d *Dispatcher) QueueLen() int {
	return d.queue.Len()
}

// Lane exposes the worker lane. Intended for tests that need to block on
// lane completion directly.
func (d *Dispatcher) Lane() *Lane { return d.lane }

// Submit hands a task to the dispatcher. Callable from any goroutine at
// any time.
//
// In queueing mode the task is appended to the pre-init queue; if the
// queue is at capacity the task is dropped and reported, never retried.
// In live mode the task is scheduled on the worker lane and the returned
// Handle resolves when it completes — unless testing mode is enabled, in
// which case Submit blocks until the task has run and returns nil.
//
// Submit never returns an error: both failure modes (overflow, flush
// timeout) are absorbed and reported through the extension registry.
func (d *Dispatcher) Submit(t task.Task) *Handle {
	t.Seq = d.seq.Add(1)
	t.SubmittedAt = time.Now()
	t.Sync = d.testing.Load()

	if d.Mode() == ModeQueueing {
		t.Queued = true
		err := d.queue.Append(&t)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrQueueFull):
			d.reportOverflow(&t)
			return nil
		case errors.Is(err, errQueueClosed):
			// Lost the race with a completing flush: the mode flipped
			// after our mode check. Fall through to live execution.
			t.Queued = false
		}
	}

	run := func() { d.execute(&t) }
	if d.testing.Load() {
		d.lane.RunSync(run)
		return nil
	}
	return d.lane.RunAsync(run)
}

// SetTestingMode toggles synchronous execution semantics. Test-only.
// It does not drain any existing queue.
func (d *Dispatcher) SetTestingMode(enabled bool) {
	d.testing.Store(enabled)
}

// SetTaskQueueing forces the dispatcher mode, bypassing the one-shot
// flush transition. Test-only, for deterministic setup and teardown.
func (d *Dispatcher) SetTaskQueueing(enabled bool) {
	if enabled {
		d.queue.Reopen()
		d.mode.Store(int32(ModeQueueing))
		return
	}
	d.mode.Store(int32(ModeLive))
	d.queue.CloseAndClear()
}

// execute runs a task through the middleware chain on the caller's
// goroutine (always the lane goroutine in practice). Middleware errors
// are already logged by the recovery middleware; tasks themselves have
// no return value to propagate.
func (d *Dispatcher) execute(t *task.Task) {
	_ = d.mw(context.Background(), t, func(_ context.Context) error {
		t.Run()
		return nil
	})
}

// reportOverflow emits the TaskDropped hook for every drop and logs a
// throttled warning so sustained overload cannot flood the log sink.
func (d *Dispatcher) reportOverflow(t *task.Task) {
	queueLen := d.queue.Len()
	d.extensions.EmitTaskDropped(context.Background(), t.Name, queueLen)

	if d.overflowLog.Allow() {
		d.logger.Warn("task queue at capacity, dropping task",
			slog.String("task_name", t.Name),
			slog.Uint64("seq", t.Seq),
			slog.Int("queue_len", queueLen),
			slog.Int("capacity", d.capacity),
		)
	}
}
