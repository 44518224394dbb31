package summarizer

import "context"

// Summarizer turns a text blob into a short generated summary. Implementations
// are stateless and never retry; a failed call wraps
// models.ErrSummarizationUnavailable.
//
// Callers must not pass blank text - an empty summarize call is a programming
// error, not a recoverable failure, and is rejected upstream.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
