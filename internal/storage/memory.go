package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/notedesk/internal/models"
)

// MemoryGateway is an in-memory stand-in for the remote store, used for
// local development and tests.
type MemoryGateway struct {
	mu    sync.RWMutex
	notes map[string]models.Note
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		notes: make(map[string]models.Note),
	}
}

func (g *MemoryGateway) List(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var items []models.NoteListItem
	for _, note := range g.notes {
		if note.OwnerID == ownerID {
			items = append(items, models.ListItemOf(note))
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	return items, nil
}

func (g *MemoryGateway) FetchOne(ctx context.Context, id string) (models.Note, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	note, exists := g.notes[id]
	if !exists {
		return models.Note{}, fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	return note, nil
}

func (g *MemoryGateway) Insert(ctx context.Context, ownerID string) (models.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	note := models.Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     models.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.notes[note.ID] = note
	return note, nil
}

func (g *MemoryGateway) UpdateFields(ctx context.Context, id string, update models.NoteUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	note, exists := g.notes[id]
	if !exists {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}

	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	if update.Summary != nil {
		note.Summary = *update.Summary
	}
	if update.UpdatedAt != nil {
		note.UpdatedAt = *update.UpdatedAt
	}

	g.notes[id] = note
	return nil
}

func (g *MemoryGateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.notes[id]; !exists {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	delete(g.notes, id)
	return nil
}

func (g *MemoryGateway) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
