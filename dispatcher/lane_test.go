package dispatcher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func startTestLane(t *testing.T) *Lane {
	t.Helper()
	l := NewLane(slog.Default())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	})
	return l
}

func TestLane_StartStop(t *testing.T) {
	l := NewLane(slog.Default())

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	// Double start should be no-op.
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("double start error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Stop(ctx); err != nil {
		t.Fatalf("stop error: %v", err)
	}
	// Double stop should be no-op.
	if err := l.Stop(ctx); err != nil {
		t.Fatalf("double stop error: %v", err)
	}
}

func TestLane_FIFOOrder(t *testing.T) {
	l := startTestLane(t)

	var mu sync.Mutex
	var got []int
	var handles []*Handle
	for i := range 10 {
		v := i
		handles = append(handles, l.RunAsync(func() {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := handles[len(handles)-1].Wait(ctx); err != nil {
		t.Fatalf("wait error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 10 {
		t.Fatalf("ran %d tasks, want 10", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d (order violated)", i, v, i)
		}
	}
}

func TestLane_RunSyncBlocks(t *testing.T) {
	l := startTestLane(t)

	var ran bool
	l.RunSync(func() { ran = true })
	if !ran {
		t.Fatal("RunSync returned before the task ran")
	}
}

func TestLane_HandleWaitDeadline(t *testing.T) {
	l := startTestLane(t)

	release := make(chan struct{})
	defer close(release)
	l.RunAsync(func() { <-release })

	h := l.RunAsync(func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := h.Wait(ctx); err == nil {
		t.Fatal("expected deadline error while the lane is blocked")
	}
}

func TestLane_StopDrainsBufferedTasks(t *testing.T) {
	l := NewLane(slog.Default())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}

	var ran atomic.Int32
	for range 5 {
		l.RunAsync(func() { ran.Add(1) })
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Stop(ctx); err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if got := ran.Load(); got != 5 {
		t.Errorf("ran = %d, want 5 (buffered tasks drain on stop)", got)
	}
}

func TestLane_PanicKeepsLaneAlive(t *testing.T) {
	l := startTestLane(t)

	h := l.RunAsync(func() { panic("boom") })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("handle for panicking task never resolved: %v", err)
	}

	var ran bool
	l.RunSync(func() { ran = true })
	if !ran {
		t.Fatal("lane dead after panicking task")
	}
}

func TestLane_RestartAfterStop(t *testing.T) {
	l := NewLane(slog.Default())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Stop(ctx); err != nil {
		t.Fatalf("stop error: %v", err)
	}

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	defer func() { _ = l.Stop(ctx) }()

	var ran bool
	l.RunSync(func() { ran = true })
	if !ran {
		t.Fatal("restarted lane did not execute")
	}
}
