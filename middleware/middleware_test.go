package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	mw "github.com/xraph/beacon/middleware"
	"github.com/xraph/beacon/task"
)

func newTestTask() *task.Task {
	return &task.Task{
		Name:        "counter.add",
		Run:         func() {},
		Seq:         7,
		SubmittedAt: time.Now(),
		Queued:      true,
	}
}

func TestChain_Order(t *testing.T) {
	var order []string

	make1 := func(name string) mw.Middleware {
		return func(ctx context.Context, _ *task.Task, next mw.Handler) error {
			order = append(order, name+"-before")
			err := next(ctx)
			order = append(order, name+"-after")
			return err
		}
	}

	chain := mw.Chain(make1("outer"), make1("inner"))
	err := chain(context.Background(), newTestTask(), func(_ context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"outer-before", "inner-before", "task", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	chain := mw.Chain()
	ran := false
	err := chain(context.Background(), newTestTask(), func(_ context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("terminal handler did not run")
	}
}

func TestChain_ErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	chain := mw.Chain(func(ctx context.Context, _ *task.Task, next mw.Handler) error {
		return next(ctx)
	})

	err := chain(context.Background(), newTestTask(), func(_ context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestRecover_ConvertsPanic(t *testing.T) {
	m := mw.Recover(slog.Default())

	err := m(context.Background(), newTestTask(), func(_ context.Context) error {
		panic("task exploded")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestRecover_PassThrough(t *testing.T) {
	m := mw.Recover(slog.Default())

	err := m(context.Background(), newTestTask(), func(_ context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogging_PassesThroughError(t *testing.T) {
	m := mw.Logging(slog.Default())
	sentinel := errors.New("fail")

	err := m(context.Background(), newTestTask(), func(_ context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}
