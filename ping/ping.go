// Package ping defines ping types and the submission pipeline.
//
// A ping is a named bundle of metric data assembled into a Document and
// handed to an Uploader. Submission goes through the dispatcher like any
// other task, so pings requested before initialization completes are
// deferred and submitted in order afterwards. Transport is out of scope:
// the Uploader interface is the seam, and the default implementation
// only logs the assembled document.
package ping

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/xraph/beacon/id"
)

var (
	// ErrUnknownPing is returned when submitting a ping that was never
	// registered.
	ErrUnknownPing = errors.New("ping: unknown ping")

	// ErrDuplicatePing is returned when registering a ping name twice.
	ErrDuplicatePing = errors.New("ping: already registered")

	// ErrInvalidReason is returned when a submission reason is not one
	// of the ping's declared reason codes.
	ErrInvalidReason = errors.New("ping: invalid reason code")
)

// Ping describes a registered ping type.
type Ping struct {
	// Name identifies the ping, e.g. "baseline".
	Name string

	// IncludeClientID controls whether the assembled document carries
	// the SDK's client identifier.
	IncludeClientID bool

	// SendIfEmpty controls whether the ping is submitted when no metric
	// data is stored for it.
	SendIfEmpty bool

	// ReasonCodes lists the valid submission reasons. Empty means any
	// reason (including none) is accepted.
	ReasonCodes []string
}

// validReason reports whether reason is acceptable for this ping.
func (p Ping) validReason(reason string) bool {
	if len(p.ReasonCodes) == 0 {
		return true
	}
	return slices.Contains(p.ReasonCodes, reason)
}

// Document is one assembled ping, ready for upload.
type Document struct {
	ID          id.PingID      `json:"id"`
	Ping        string         `json:"ping"`
	Reason      string         `json:"reason,omitempty"`
	ClientID    string         `json:"client_id,omitempty"`
	CollectedAt time.Time      `json:"collected_at"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// Uploader receives assembled ping documents. Implementations own
// transport, retry, and persistence concerns.
type Uploader interface {
	Upload(ctx context.Context, doc *Document) error
}

// LogUploader is the default Uploader: it logs the document instead of
// sending it anywhere. Useful in development and as the stand-in when
// no transport is configured.
type LogUploader struct {
	logger *slog.Logger
}

// NewLogUploader creates a LogUploader.
func NewLogUploader(logger *slog.Logger) *LogUploader {
	return &LogUploader{logger: logger}
}

// Upload implements Uploader by logging the JSON-encoded document.
func (u *LogUploader) Upload(_ context.Context, doc *Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	u.logger.Info("ping assembled",
		slog.String("ping", doc.Ping),
		slog.String("doc_id", doc.ID.String()),
		slog.String("body", string(body)),
	)
	return nil
}
