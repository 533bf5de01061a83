package beacon

import (
	"log/slog"
	"time"

	"github.com/xraph/beacon/ext"
	"github.com/xraph/beacon/middleware"
	"github.com/xraph/beacon/ping"
	"github.com/xraph/beacon/storage"
)

// Option configures an SDK.
type Option func(*SDK) error

// WithAppID sets the application identifier. Required.
func WithAppID(appID string) Option {
	return func(s *SDK) error {
		s.config.AppID = appID
		return nil
	}
}

// WithConfig replaces the entire configuration.
func WithConfig(cfg Config) Option {
	return func(s *SDK) error {
		s.config = cfg
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *SDK) error {
		s.logger = logger
		return nil
	}
}

// WithQueueCapacity overrides the pre-init task queue capacity.
func WithQueueCapacity(n int) Option {
	return func(s *SDK) error {
		s.config.QueueCapacity = n
		return nil
	}
}

// WithFlushTimeout overrides the maximum time Initialize blocks waiting
// for the pre-init queue to drain.
func WithFlushTimeout(timeout time.Duration) Option {
	return func(s *SDK) error {
		s.config.FlushTimeout = timeout
		return nil
	}
}

// WithUploadEnabled sets the initial upload preference.
func WithUploadEnabled(enabled bool) Option {
	return func(s *SDK) error {
		s.config.UploadEnabled = enabled
		return nil
	}
}

// WithStore sets the metric storage backend. Defaults to the in-memory
// store.
func WithStore(st storage.Store) Option {
	return func(s *SDK) error {
		s.store = st
		return nil
	}
}

// WithUploader sets the ping uploader. Defaults to ping.LogUploader,
// which logs assembled documents instead of sending them.
func WithUploader(u ping.Uploader) Option {
	return func(s *SDK) error {
		s.uploader = u
		return nil
	}
}

// WithExtension registers a lifecycle extension.
func WithExtension(e ext.Extension) Option {
	return func(s *SDK) error {
		s.userExts = append(s.userExts, e)
		return nil
	}
}

// WithTaskMiddleware appends middleware to the dispatcher's task
// execution chain. The built-in panic recovery middleware always runs
// outermost.
func WithTaskMiddleware(mws ...middleware.Middleware) Option {
	return func(s *SDK) error {
		s.userMW = append(s.userMW, mws...)
		return nil
	}
}
