package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Relay Errors.

	// ErrNoRelays indicates no relay URLs are configured.
	ErrNoRelays = errors.New("no relays configured")

	// ErrQueryFailed indicates every relay failed to answer a query.
	// Callers should offer a retry and suggest switching relay.
	ErrQueryFailed = errors.New("relay query failed")

	// ErrQueryTimeout indicates the query deadline elapsed before any relay answered.
	ErrQueryTimeout = errors.New("relay query timed out")

	// ErrPublishFailed indicates no relay accepted a published event.
	// Publishing is never retried automatically.
	ErrPublishFailed = errors.New("publish failed")

	// ErrRelayClosed indicates the relay client has been closed.
	ErrRelayClosed = errors.New("relay client closed")

	// ErrSignerUnavailable indicates no secret key is configured for signing.
	ErrSignerUnavailable = errors.New("signer unavailable: no secret key configured")

	// Annotation Errors.

	// ErrEmptySelection indicates a selection with no text.
	ErrEmptySelection = errors.New("empty selection")

	// ErrOverlappingSelection indicates a selection intersects an existing anchored comment.
	ErrOverlappingSelection = errors.New("selection overlaps an existing anchored comment")

	// ErrSessionDetached indicates the annotation session is no longer attached to its region.
	ErrSessionDetached = errors.New("annotation session detached")
)

// IsRetryable reports whether err is a transport failure worth retrying,
// possibly against a different relay.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrQueryFailed) ||
		errors.Is(err, ErrQueryTimeout) ||
		errors.Is(err, ErrNoRelays)
}
