package ping

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/beacon/dispatcher"
	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/id"
	"github.com/xraph/beacon/storage"
	"github.com/xraph/beacon/task"
)

// Service owns the ping registry and the submission pipeline.
type Service struct {
	disp       *dispatcher.Dispatcher
	store      storage.Store
	uploader   Uploader
	extensions *ext.Registry
	logger     *slog.Logger
	clientID   id.ClientID

	// uploadEnabled gates document upload at collection time. Supplied
	// by the SDK so opt-out takes effect for already-queued submissions.
	uploadEnabled func() bool

	mu    sync.RWMutex
	pings map[string]Ping
}

// NewService creates a ping Service.
func NewService(
	disp *dispatcher.Dispatcher,
	store storage.Store,
	uploader Uploader,
	extensions *ext.Registry,
	logger *slog.Logger,
	clientID id.ClientID,
	uploadEnabled func() bool,
) *Service {
	return &Service{
		disp:          disp,
		store:         store,
		uploader:      uploader,
		extensions:    extensions,
		logger:        logger,
		clientID:      clientID,
		uploadEnabled: uploadEnabled,
		pings:         make(map[string]Ping),
	}
}

// Register adds a ping type. Registering the same name twice is an error.
func (s *Service) Register(p Ping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pings[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePing, p.Name)
	}
	s.pings[p.Name] = p
	return nil
}

// Get returns a registered ping by name.
func (s *Service) Get(name string) (Ping, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pings[name]
	return p, ok
}

// Submit requests assembly and upload of the named ping. Validation
// happens at the call; collection runs as a dispatched task, so a ping
// submitted before initialization completes is collected after flush,
// in order with the recordings that precede it.
func (s *Service) Submit(name, reason string) error {
	p, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPing, name)
	}
	if !p.validReason(reason) {
		return fmt.Errorf("%w: %s for ping %s", ErrInvalidReason, reason, name)
	}

	s.disp.Submit(task.Task{
		Name: "ping.submit",
		Run:  func() { s.collect(p, reason) },
	})
	return nil
}

// collect snapshots the ping's stored data, assembles the document, and
// hands it to the uploader. Runs on the worker lane.
func (s *Service) collect(p Ping, reason string) {
	if !s.uploadEnabled() {
		s.logger.Debug("upload disabled, dropping ping", slog.String("ping", p.Name))
		return
	}

	// Snapshot clears the stored data: each value is sent exactly once.
	snapshot := s.store.SnapshotPing(p.Name, true)
	if snapshot == nil && !p.SendIfEmpty {
		s.logger.Debug("ping has no data, skipping", slog.String("ping", p.Name))
		return
	}

	doc := &Document{
		ID:          id.NewPingID(),
		Ping:        p.Name,
		Reason:      reason,
		CollectedAt: time.Now().UTC(),
		Metrics:     snapshot,
	}
	if p.IncludeClientID {
		doc.ClientID = s.clientID.String()
	}

	ctx := context.Background()
	if err := s.uploader.Upload(ctx, doc); err != nil {
		s.logger.Error("ping upload failed",
			slog.String("ping", p.Name),
			slog.String("doc_id", doc.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.extensions.EmitPingSubmitted(ctx, p.Name, doc.ID)
	s.logger.Debug("ping submitted",
		slog.String("ping", p.Name),
		slog.String("doc_id", doc.ID.String()),
		slog.String("reason", reason),
	)
}
