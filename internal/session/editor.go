package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/notedesk/internal/models"
	"github.com/xaenox/notedesk/internal/storage"
	"github.com/xaenox/notedesk/internal/summarizer"
	"go.uber.org/zap"
)

type EditorState string

const (
	StateClosed      EditorState = "closed"
	StateLoading     EditorState = "loading"
	StateReady       EditorState = "ready"
	StateSaving      EditorState = "saving"
	StateSummarizing EditorState = "summarizing"
)

// Buffer is a read-only snapshot of the open note's local state.
type Buffer struct {
	NoteID    string
	Title     string
	Content   string
	Summary   string
	UpdatedAt time.Time
	Dirty     bool
}

// Editor holds the full content of at most one open note. Title and content
// edits mutate the local buffer only; Save persists both in a single write.
// Summaries are never buffered: a generated summary is persisted before it
// becomes visible locally.
//
// Remote calls run without the lock held. Every completion re-checks the
// epoch before touching the buffer, so a response that arrives after the
// user has switched notes is discarded instead of applied. A second Save or
// Summarize while one is pending is rejected with models.ErrBusy.
type Editor struct {
	mu    sync.Mutex
	state EditorState
	epoch uint64

	noteID    string
	title     string
	content   string
	summary   string
	createdAt time.Time
	updatedAt time.Time
	dirty     bool

	gateway    storage.Gateway
	summarizer summarizer.Summarizer
	logger     *zap.Logger
}

func NewEditor(gateway storage.Gateway, summarizer summarizer.Summarizer, logger *zap.Logger) *Editor {
	return &Editor{
		state:      StateClosed,
		gateway:    gateway,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Open loads the note with the given id into the buffer. Opening supersedes
// any in-flight operation: the pending completion sees a new epoch and drops
// its result. The buffer is cleared up front so nothing of the previous note
// stays visible while loading.
func (e *Editor) Open(ctx context.Context, id string) error {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	e.noteID = id
	e.title = ""
	e.content = ""
	e.summary = ""
	e.dirty = false
	e.state = StateLoading
	e.mu.Unlock()

	note, err := e.gateway.FetchOne(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch {
		// Superseded by a later Open or Close.
		return nil
	}
	if err != nil {
		e.state = StateClosed
		e.noteID = ""
		e.logger.Error("Failed to open note", zap.String("id", id), zap.Error(err))
		return err
	}

	e.title = note.Title
	e.content = note.Content
	e.summary = note.Summary
	e.createdAt = note.CreatedAt
	e.updatedAt = note.UpdatedAt
	e.state = StateReady
	return nil
}

// EditTitle mutates the buffered title. Legal whenever a note is loaded,
// including while a save or summarize is pending.
func (e *Editor) EditTitle(newTitle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed || e.state == StateLoading {
		return fmt.Errorf("no open note: %w", models.ErrValidation)
	}
	e.title = newTitle
	e.dirty = true
	return nil
}

// EditContent mutates the buffered content.
func (e *Editor) EditContent(newText string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed || e.state == StateLoading {
		return fmt.Errorf("no open note: %w", models.ErrValidation)
	}
	e.content = newText
	e.dirty = true
	return nil
}

// Save persists the buffered title and content with a fresh updated_at and
// returns the refreshed list item for the coordinator to forward into the
// collection. On failure the buffer is untouched and nothing is returned.
func (e *Editor) Save(ctx context.Context) (models.NoteListItem, error) {
	e.mu.Lock()
	switch e.state {
	case StateSaving, StateSummarizing:
		e.mu.Unlock()
		return models.NoteListItem{}, fmt.Errorf("save: %w", models.ErrBusy)
	case StateClosed, StateLoading:
		e.mu.Unlock()
		return models.NoteListItem{}, fmt.Errorf("no open note: %w", models.ErrValidation)
	}
	if !e.dirty {
		e.mu.Unlock()
		return models.NoteListItem{}, fmt.Errorf("no unsaved changes: %w", models.ErrValidation)
	}

	epoch := e.epoch
	id := e.noteID
	title := e.title
	content := e.content
	createdAt := e.createdAt
	now := time.Now().UTC()
	e.state = StateSaving
	e.mu.Unlock()

	err := e.gateway.UpdateFields(ctx, id, models.NoteUpdate{
		Title:     &title,
		Content:   &content,
		UpdatedAt: &now,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.epoch == epoch {
			// Buffer stays intact; the user can retry.
			e.state = StateReady
		}
		e.logger.Error("Failed to save note", zap.String("id", id), zap.Error(err))
		return models.NoteListItem{}, err
	}

	item := models.NoteListItem{
		ID:        id,
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	if e.epoch != epoch {
		// The note was switched while the save was in flight. The write
		// went through, so the list item is still valid, but the buffer
		// now belongs to a different note and must not be touched.
		return item, nil
	}

	e.updatedAt = now
	// Edits made while the save was in flight keep the buffer dirty.
	e.dirty = e.title != title || e.content != content
	e.state = StateReady
	return item, nil
}

// Summarize generates a summary for the buffered content and persists it.
// Blank content is rejected before any network call. The persisted summary
// does not advance updated_at, matching the reference system.
func (e *Editor) Summarize(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateSaving, StateSummarizing:
		e.mu.Unlock()
		return fmt.Errorf("summarize: %w", models.ErrBusy)
	case StateClosed, StateLoading:
		e.mu.Unlock()
		return fmt.Errorf("no open note: %w", models.ErrValidation)
	}
	if strings.TrimSpace(e.content) == "" {
		e.mu.Unlock()
		return fmt.Errorf("cannot summarize empty content: %w", models.ErrValidation)
	}

	epoch := e.epoch
	id := e.noteID
	content := e.content
	e.state = StateSummarizing
	e.mu.Unlock()

	summary, err := e.summarizer.Summarize(ctx, content)
	if err == nil {
		// Persist before exposing; a summary is never buffered-only.
		err = e.gateway.UpdateFields(ctx, id, models.NoteUpdate{Summary: &summary})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.epoch == epoch {
			// Prior summary stays as it was.
			e.state = StateReady
		}
		e.logger.Error("Failed to summarize note", zap.String("id", id), zap.Error(err))
		return err
	}

	if e.epoch != epoch {
		return nil
	}

	e.summary = summary
	e.state = StateReady
	return nil
}

// Close discards the buffer. Unsaved content edits are lost, matching the
// explicit-save semantics.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.state = StateClosed
	e.noteID = ""
	e.title = ""
	e.content = ""
	e.summary = ""
	e.createdAt = time.Time{}
	e.updatedAt = time.Time{}
	e.dirty = false
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns the buffer as the presentation layer should render it.
func (e *Editor) Snapshot() Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Buffer{
		NoteID:    e.noteID,
		Title:     e.title,
		Content:   e.content,
		Summary:   e.summary,
		UpdatedAt: e.updatedAt,
		Dirty:     e.dirty,
	}
}
