package beacon

import "errors"

var (
	// Configuration errors.
	ErrMissingAppID = errors.New("beacon: app id is required")

	// Lifecycle errors.
	ErrAlreadyInitialized = errors.New("beacon: already initialized")
	ErrNotInitialized     = errors.New("beacon: not initialized")
)
