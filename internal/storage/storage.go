package storage

import (
	"context"

	"github.com/xaenox/notedesk/internal/models"
)

// Gateway is the typed boundary to the remote persistence service. It performs
// no caching and no retries; failures map onto the models error taxonomy
// (models.ErrRemoteUnavailable, models.ErrNotFound).
//
// UpdatedAt on writes is always supplied by the caller; the gateway stamps
// timestamps only at insert.
type Gateway interface {
	// List returns the owner's notes as list items ordered by updated_at
	// descending. The ordering holds even if the backing store ignores it.
	List(ctx context.Context, ownerID string) ([]models.NoteListItem, error)

	// FetchOne returns the full note for id.
	FetchOne(ctx context.Context, id string) (models.Note, error)

	// Insert creates a note for ownerID with the default title and empty
	// content/summary, returning the stored record.
	Insert(ctx context.Context, ownerID string) (models.Note, error)

	// UpdateFields applies the non-nil fields of update to the note with id.
	UpdateFields(ctx context.Context, id string, update models.NoteUpdate) error

	// Delete removes the note with id.
	Delete(ctx context.Context, id string) error

	Close() error
}
