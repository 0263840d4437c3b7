package docstore

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable is returned when the underlying store cannot be reached.
	// Callers that initiated an explicit write must see this error rather than
	// lose the write silently.
	ErrUnavailable = errors.New("document store unavailable")
)
