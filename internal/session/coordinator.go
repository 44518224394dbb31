package session

import (
	"context"
	"errors"
	"sync"

	"github.com/xaenox/notedesk/internal/auth"
	"github.com/xaenox/notedesk/internal/models"
	"github.com/xaenox/notedesk/internal/storage"
	"go.uber.org/zap"
)

// Coordinator wires the collection and the editor together and reacts to
// authentication changes. It owns the selected note id and is the only
// component that moves data between the editor and the collection: the editor
// returns upsert events, the coordinator forwards them.
//
// Any operation failing with models.ErrUnauthenticated resets the coordinator
// to the logged-out state before the error is surfaced.
type Coordinator struct {
	mu             sync.Mutex
	selectedNoteID string

	collection *Collection
	editor     *Editor
	gateway    storage.Gateway
	provider   auth.Provider
	events     <-chan auth.Event
	logger     *zap.Logger
}

func NewCoordinator(collection *Collection, editor *Editor, gateway storage.Gateway, provider auth.Provider, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		collection: collection,
		editor:     editor,
		gateway:    gateway,
		provider:   provider,
		// Subscribe up front so no session change between construction
		// and Run is missed.
		events: provider.Subscribe(),
		logger: logger,
	}
}

// Start resolves the current session and loads the user's note list.
func (c *Coordinator) Start(ctx context.Context) error {
	ownerID, err := c.provider.CurrentUserID()
	if err != nil {
		return c.surface(err)
	}
	return c.surface(c.collection.Refresh(ctx, ownerID))
}

// Run consumes session-change events until ctx is done. A sign-out tears all
// local state down; a sign-in loads the new user's list.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-c.events:
			if !ok {
				return nil
			}
			switch event.Type {
			case auth.SignedOut:
				c.logger.Info("Session ended, clearing local state")
				c.reset()
			case auth.SignedIn:
				if err := c.collection.Refresh(ctx, event.UserID); err != nil {
					c.logger.Error("Failed to load notes after sign-in", zap.Error(err))
				}
			}
		}
	}
}

// Select opens the note in the editor and records it as selected. A failed
// open leaves nothing selected.
func (c *Coordinator) Select(ctx context.Context, id string) error {
	if err := c.editor.Open(ctx, id); err != nil {
		c.setSelected("")
		return c.surface(err)
	}
	c.setSelected(id)
	return nil
}

// Create inserts an empty note, upserts it into the collection, and selects
// it. No full refresh is needed: the new note is both listed and open.
func (c *Coordinator) Create(ctx context.Context) (models.Note, error) {
	ownerID, err := c.provider.CurrentUserID()
	if err != nil {
		return models.Note{}, c.surface(err)
	}

	note, err := c.gateway.Insert(ctx, ownerID)
	if err != nil {
		return models.Note{}, c.surface(err)
	}

	c.collection.ApplyLocalUpsert(models.ListItemOf(note))
	if err := c.Select(ctx, note.ID); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Delete removes the note remotely, then locally. The remote delete must
// succeed before anything local changes; a failure leaves the note listed.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if err := c.gateway.Delete(ctx, id); err != nil {
		return c.surface(err)
	}

	c.collection.ApplyLocalRemoval(id)

	c.mu.Lock()
	selected := c.selectedNoteID == id
	c.mu.Unlock()
	if selected {
		c.editor.Close()
		c.setSelected("")
	}
	return nil
}

// Save persists the editor buffer and forwards the resulting upsert into the
// collection, so the list reflects the new title and position without a
// refresh.
func (c *Coordinator) Save(ctx context.Context) error {
	item, err := c.editor.Save(ctx)
	if err != nil {
		return c.surface(err)
	}
	// The session may have ended while the save was in flight; note data
	// must never resurface after logout.
	if _, err := c.provider.CurrentUserID(); err != nil {
		return c.surface(err)
	}
	if item.ID != "" {
		c.collection.ApplyLocalUpsert(item)
	}
	return nil
}

// Summarize generates and persists a summary for the open note.
func (c *Coordinator) Summarize(ctx context.Context) error {
	return c.surface(c.editor.Summarize(ctx))
}

// Refresh re-fetches the full list; the recovery path after a failed refresh.
func (c *Coordinator) Refresh(ctx context.Context) error {
	ownerID, err := c.provider.CurrentUserID()
	if err != nil {
		return c.surface(err)
	}
	return c.surface(c.collection.Refresh(ctx, ownerID))
}

// SignOut ends the session. The provider's event triggers the same teardown
// in Run; the direct reset keeps state consistent when Run is not active.
func (c *Coordinator) SignOut() error {
	err := c.provider.SignOut()
	c.reset()
	return err
}

func (c *Coordinator) SelectedNoteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedNoteID
}

func (c *Coordinator) setSelected(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedNoteID = id
}

// reset returns to the logged-out state: no selection, closed editor, empty
// list. No residual note data stays visible.
func (c *Coordinator) reset() {
	c.editor.Close()
	c.collection.Clear()
	c.setSelected("")
}

// surface routes errors to the caller, forcing a full reset when the session
// turned out to be invalid.
func (c *Coordinator) surface(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrUnauthenticated) {
		c.logger.Warn("Session invalid, clearing local state", zap.Error(err))
		c.reset()
	}
	return err
}
