package ping_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/xraph/beacon/dispatcher"
	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/id"
	"github.com/xraph/beacon/ping"
	"github.com/xraph/beacon/storage/memory"
)

// captureUploader records every document it receives.
type captureUploader struct {
	mu   sync.Mutex
	docs []*ping.Document
	err  error
}

func (u *captureUploader) Upload(_ context.Context, doc *ping.Document) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return u.err
	}
	u.docs = append(u.docs, doc)
	return nil
}

func (u *captureUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.docs)
}

func (u *captureUploader) last() *ping.Document {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.docs) == 0 {
		return nil
	}
	return u.docs[len(u.docs)-1]
}

type pingTracker struct {
	mu        sync.Mutex
	submitted []string
}

func (e *pingTracker) Name() string { return "ping-tracker" }

func (e *pingTracker) OnPingSubmitted(_ context.Context, pingName string, _ id.PingID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitted = append(e.submitted, pingName)
	return nil
}

type fixture struct {
	svc      *ping.Service
	store    *memory.Store
	uploader *captureUploader
	tracker  *pingTracker
	enabled  bool
}

func setupService(t *testing.T) *fixture {
	t.Helper()

	logger := slog.Default()
	registry := ext.NewRegistry(logger)
	tracker := &pingTracker{}
	registry.Register(tracker)

	d := dispatcher.New(logger, registry)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.Stop(ctx)
	})
	d.SetTestingMode(true)
	d.SetTaskQueueing(false)

	f := &fixture{
		store:    memory.New(),
		uploader: &captureUploader{},
		tracker:  tracker,
		enabled:  true,
	}
	f.svc = ping.NewService(
		d, f.store, f.uploader, registry, logger,
		id.NewClientID(),
		func() bool { return f.enabled },
	)
	return f
}

func TestService_RegisterDuplicate(t *testing.T) {
	f := setupService(t)

	if err := f.svc.Register(ping.Ping{Name: "baseline"}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	if err := f.svc.Register(ping.Ping{Name: "baseline"}); !errors.Is(err, ping.ErrDuplicatePing) {
		t.Fatalf("expected ErrDuplicatePing, got %v", err)
	}
}

func TestService_SubmitUnknownPing(t *testing.T) {
	f := setupService(t)

	if err := f.svc.Submit("nope", ""); !errors.Is(err, ping.ErrUnknownPing) {
		t.Fatalf("expected ErrUnknownPing, got %v", err)
	}
}

func TestService_SubmitInvalidReason(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "baseline", ReasonCodes: []string{"background", "dirty_startup"}})

	if err := f.svc.Submit("baseline", "bogus"); !errors.Is(err, ping.ErrInvalidReason) {
		t.Fatalf("expected ErrInvalidReason, got %v", err)
	}
	if err := f.svc.Submit("baseline", "background"); err != nil {
		t.Fatalf("valid reason rejected: %v", err)
	}
}

func TestService_SubmitAssemblesDocument(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "baseline", IncludeClientID: true})

	f.store.AddCounter("baseline", "ui.clicks", 4)

	if err := f.svc.Submit("baseline", ""); err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if f.uploader.count() != 1 {
		t.Fatalf("uploaded %d documents, want 1", f.uploader.count())
	}
	doc := f.uploader.last()
	if doc.Ping != "baseline" {
		t.Errorf("doc.Ping = %q, want %q", doc.Ping, "baseline")
	}
	if doc.ID.Prefix() != id.PrefixPing {
		t.Errorf("doc ID prefix = %q, want %q", doc.ID.Prefix(), id.PrefixPing)
	}
	if doc.ClientID == "" {
		t.Error("expected client ID in document")
	}
	counters, ok := doc.Metrics["counter"].(map[string]int32)
	if !ok || counters["ui.clicks"] != 4 {
		t.Errorf("doc metrics = %v, want ui.clicks=4", doc.Metrics)
	}

	// Snapshot clears: second submission of an empty ping is skipped.
	if err := f.svc.Submit("baseline", ""); err != nil {
		t.Fatalf("second submit error: %v", err)
	}
	if f.uploader.count() != 1 {
		t.Errorf("empty ping was uploaded, count = %d", f.uploader.count())
	}

	f.tracker.mu.Lock()
	defer f.tracker.mu.Unlock()
	if len(f.tracker.submitted) != 1 || f.tracker.submitted[0] != "baseline" {
		t.Errorf("PingSubmitted hooks = %v, want [baseline]", f.tracker.submitted)
	}
}

func TestService_SendIfEmpty(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "heartbeat", SendIfEmpty: true})

	if err := f.svc.Submit("heartbeat", ""); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if f.uploader.count() != 1 {
		t.Fatalf("empty SendIfEmpty ping not uploaded")
	}
	if doc := f.uploader.last(); doc.Metrics != nil {
		t.Errorf("empty ping metrics = %v, want nil", doc.Metrics)
	}
}

func TestService_NoClientIDWhenExcluded(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "anon", SendIfEmpty: true})

	if err := f.svc.Submit("anon", ""); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if doc := f.uploader.last(); doc.ClientID != "" {
		t.Errorf("client ID leaked into anonymous ping: %q", doc.ClientID)
	}
}

func TestService_UploadDisabledDropsPing(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "baseline", SendIfEmpty: true})

	f.enabled = false
	if err := f.svc.Submit("baseline", ""); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if f.uploader.count() != 0 {
		t.Errorf("disabled upload still sent %d documents", f.uploader.count())
	}
}

func TestService_UploaderErrorAbsorbed(t *testing.T) {
	f := setupService(t)
	_ = f.svc.Register(ping.Ping{Name: "baseline", SendIfEmpty: true})

	f.uploader.err = errors.New("transport down")
	if err := f.svc.Submit("baseline", ""); err != nil {
		t.Fatalf("submit must not surface upload errors, got %v", err)
	}

	f.tracker.mu.Lock()
	defer f.tracker.mu.Unlock()
	if len(f.tracker.submitted) != 0 {
		t.Error("PingSubmitted must not fire on upload failure")
	}
}
