package beacon

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/xraph/beacon/dispatcher"
	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/id"
	"github.com/xraph/beacon/metrics"
	"github.com/xraph/beacon/middleware"
	"github.com/xraph/beacon/ping"
	"github.com/xraph/beacon/storage"
	"github.com/xraph/beacon/storage/memory"
	"github.com/xraph/beacon/task"
)

// SDK is the central coordinator for metric recording, ping assembly,
// and upload. Create one with New and functional options, then call
// Initialize once at startup.
//
// Every public method is safe to call before Initialize: recording and
// submission calls are buffered by the dispatcher and replayed in order
// when Initialize flushes the pre-init queue.
type SDK struct {
	config     Config
	logger     *slog.Logger
	extensions *ext.Registry
	disp       *dispatcher.Dispatcher
	store      storage.Store
	uploader   ping.Uploader
	recorder   *metrics.Recorder
	pings      *ping.Service
	clientID   id.ClientID

	userExts []ext.Extension
	userMW   []middleware.Middleware

	uploadEnabled atomic.Bool
	initialized   atomic.Bool
}

// New creates a new SDK with the given options. The SDK starts in
// queueing mode: recording calls are buffered until Initialize runs.
func New(opts ...Option) (*SDK, error) {
	s := &SDK{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.config.AppID == "" {
		return nil, ErrMissingAppID
	}

	if s.store == nil {
		s.store = memory.New()
	}
	if s.uploader == nil {
		s.uploader = ping.NewLogUploader(s.logger)
	}

	s.extensions = ext.NewRegistry(s.logger)
	for _, e := range s.userExts {
		s.extensions.Register(e)
	}

	s.disp = dispatcher.New(s.logger, s.extensions,
		dispatcher.WithQueueCapacity(s.config.QueueCapacity),
		dispatcher.WithFlushTimeout(s.config.FlushTimeout),
		dispatcher.WithMiddleware(s.userMW...),
	)

	s.clientID = id.NewClientID()
	s.uploadEnabled.Store(s.config.UploadEnabled)
	s.recorder = metrics.NewRecorder(s.disp, s.store, s.logger)
	s.pings = ping.NewService(
		s.disp, s.store, s.uploader, s.extensions, s.logger,
		s.clientID, s.uploadEnabled.Load,
	)
	return s, nil
}

// Initialize starts the worker lane and flushes the pre-init task queue,
// replaying buffered recordings in submission order. It must be called
// exactly once; further calls return ErrAlreadyInitialized.
//
// A flush timeout is not fatal: the undrained backlog is abandoned and
// reported, the SDK switches to live execution, and Initialize returns
// nil so the application keeps running.
func (s *SDK) Initialize(ctx context.Context) error {
	if !s.initialized.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}

	if err := s.disp.Start(ctx); err != nil {
		s.initialized.Store(false)
		return err
	}

	if err := s.disp.Flush(ctx); err != nil {
		if !errors.Is(err, dispatcher.ErrFlushTimeout) {
			return err
		}
		s.logger.Warn("pre-init flush did not complete",
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("beacon initialized",
		slog.String("app_id", s.config.AppID),
		slog.String("client_id", s.clientID.String()),
	)
	return nil
}

// Shutdown stops the worker lane, waiting up to the context deadline for
// in-flight tasks, and notifies extensions.
func (s *SDK) Shutdown(ctx context.Context) error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}
	err := s.disp.Stop(ctx)
	s.extensions.EmitShutdown(ctx)
	return err
}

// SetUploadEnabled changes the upload preference. The change is applied
// as a dispatched task, so a toggle requested before Initialize takes
// effect in order with the recordings around it. Disabling upload clears
// all stored metric data.
func (s *SDK) SetUploadEnabled(enabled bool) {
	s.disp.Submit(task.Task{
		Name: "upload.toggle",
		Run: func() {
			prev := s.uploadEnabled.Swap(enabled)
			if prev == enabled {
				return
			}
			if !enabled {
				s.store.Clear()
			}
			s.extensions.EmitUploadToggled(context.Background(), enabled)
			s.logger.Info("upload preference changed", slog.Bool("enabled", enabled))
		},
	})
}

// UploadEnabled reports the current upload preference.
func (s *SDK) UploadEnabled() bool {
	return s.uploadEnabled.Load()
}

// RegisterPing adds a ping type to the registry.
func (s *SDK) RegisterPing(p ping.Ping) error {
	return s.pings.Register(p)
}

// SubmitPing requests assembly and upload of the named ping.
func (s *SDK) SubmitPing(name, reason string) error {
	return s.pings.Submit(name, reason)
}

// SetTestingMode toggles synchronous task execution. Test-only: with it
// enabled, recording calls block until their storage mutation completes.
func (s *SDK) SetTestingMode(enabled bool) {
	s.disp.SetTestingMode(enabled)
}

// Dispatcher returns the task dispatcher.
func (s *SDK) Dispatcher() *dispatcher.Dispatcher { return s.disp }

// Recorder returns the metric recorder used to construct metric types.
func (s *SDK) Recorder() *metrics.Recorder { return s.recorder }

// Pings returns the ping service.
func (s *SDK) Pings() *ping.Service { return s.pings }

// Extensions returns the extension registry.
func (s *SDK) Extensions() *ext.Registry { return s.extensions }

// ClientID returns the SDK's client identifier.
func (s *SDK) ClientID() id.ClientID { return s.clientID }

// Config returns a copy of the SDK's configuration.
func (s *SDK) Config() Config { return s.config }
