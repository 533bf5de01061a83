package beacon

import (
	"time"

	"github.com/xraph/beacon/dispatcher"
)

// Config holds configuration for the SDK.
type Config struct {
	// AppID identifies the application in assembled ping documents.
	// Required.
	AppID string

	// QueueCapacity is the maximum number of tasks buffered before
	// initialization. Further submissions are dropped and reported.
	QueueCapacity int

	// FlushTimeout is the maximum time Initialize blocks waiting for the
	// pre-init queue to drain.
	FlushTimeout time.Duration

	// UploadEnabled is the initial upload preference. When false, pings
	// are assembled but never handed to the uploader, and recorded data
	// is cleared.
	UploadEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: dispatcher.DefaultQueueCapacity,
		FlushTimeout:  dispatcher.DefaultFlushTimeout,
		UploadEnabled: true,
	}
}
