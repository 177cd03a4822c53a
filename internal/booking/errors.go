package booking

import "errors"

// The booking error taxonomy. Expected control flow ("slot taken") is a
// typed error, never a panic; handlers map these onto HTTP statuses and the
// public wizard maps ErrSlotUnavailable onto a re-prompt with fresh slots.
var (
	// ErrInvalidInput covers missing required fields and malformed
	// date/time values, rejected before touching the repository.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSlotUnavailable means the requested slot is closed per schedule or
	// already occupied, including the commit-time race where another
	// booking landed first.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrNotFound means the referenced appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrStoreUnavailable means the persistence layer cannot be reached;
	// retryable from the caller's side.
	ErrStoreUnavailable = errors.New("store unavailable")
)
