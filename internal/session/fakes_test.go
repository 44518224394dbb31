package session

import (
	"context"
	"sync"

	"github.com/xaenox/notedesk/internal/models"
)

// fakeGateway implements storage.Gateway with per-call hooks so tests can
// inject failures and hold responses in flight.
type fakeGateway struct {
	mu sync.Mutex

	listFunc   func(ctx context.Context, ownerID string) ([]models.NoteListItem, error)
	fetchFunc  func(ctx context.Context, id string) (models.Note, error)
	insertFunc func(ctx context.Context, ownerID string) (models.Note, error)
	updateFunc func(ctx context.Context, id string, update models.NoteUpdate) error
	deleteFunc func(ctx context.Context, id string) error

	updates []recordedUpdate
}

type recordedUpdate struct {
	id     string
	update models.NoteUpdate
}

func (g *fakeGateway) List(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
	if g.listFunc != nil {
		return g.listFunc(ctx, ownerID)
	}
	return nil, nil
}

func (g *fakeGateway) FetchOne(ctx context.Context, id string) (models.Note, error) {
	if g.fetchFunc != nil {
		return g.fetchFunc(ctx, id)
	}
	return models.Note{ID: id}, nil
}

func (g *fakeGateway) Insert(ctx context.Context, ownerID string) (models.Note, error) {
	if g.insertFunc != nil {
		return g.insertFunc(ctx, ownerID)
	}
	return models.Note{OwnerID: ownerID}, nil
}

func (g *fakeGateway) UpdateFields(ctx context.Context, id string, update models.NoteUpdate) error {
	var err error
	if g.updateFunc != nil {
		err = g.updateFunc(ctx, id, update)
	}
	if err == nil {
		g.mu.Lock()
		g.updates = append(g.updates, recordedUpdate{id: id, update: update})
		g.mu.Unlock()
	}
	return err
}

func (g *fakeGateway) Delete(ctx context.Context, id string) error {
	if g.deleteFunc != nil {
		return g.deleteFunc(ctx, id)
	}
	return nil
}

func (g *fakeGateway) Close() error { return nil }

func (g *fakeGateway) recordedUpdates() []recordedUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]recordedUpdate, len(g.updates))
	copy(out, g.updates)
	return out
}

// fakeSummarizer counts calls and returns a fixed result.
type fakeSummarizer struct {
	mu     sync.Mutex
	calls  int
	result string
	err    error
}

func (s *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result, s.err
}

func (s *fakeSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
