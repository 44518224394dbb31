package models

import "errors"

// Error taxonomy shared by every collaborator. Callers branch with errors.Is;
// the concrete cause stays attached through %w wrapping.
var (
	// ErrRemoteUnavailable marks a transient network or service failure.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrNotFound marks an id that no longer exists in the remote store.
	ErrNotFound = errors.New("note not found")

	// ErrSummarizationUnavailable marks a failure of the AI summarization service.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")

	// ErrValidation marks a rejected operation, e.g. summarizing blank content.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated marks a missing or expired session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrBusy marks an operation rejected because a prior instance of the
	// same operation is still in flight.
	ErrBusy = errors.New("operation already in progress")
)
