package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xaenox/notedesk/internal/models"
	"github.com/xaenox/notedesk/internal/storage"
	"go.uber.org/zap"
)

type CollectionStatus string

const (
	StatusIdle    CollectionStatus = "idle"
	StatusLoading CollectionStatus = "loading"
	StatusReady   CollectionStatus = "ready"
	StatusFailed  CollectionStatus = "failed"
)

// Collection owns the authoritative in-memory list of note summaries for the
// current user. All mutations re-establish the list invariants: unique ids,
// sorted by updated_at descending. Readers between operations never observe a
// partially updated list.
type Collection struct {
	mu      sync.Mutex
	items   []models.NoteListItem
	status  CollectionStatus
	gateway storage.Gateway
	logger  *zap.Logger
}

func NewCollection(gateway storage.Gateway, logger *zap.Logger) *Collection {
	return &Collection{
		status:  StatusIdle,
		gateway: gateway,
		logger:  logger,
	}
}

// Refresh replaces the list with the remote state. On failure the previous
// items stay visible; stale data beats a blanked list.
func (c *Collection) Refresh(ctx context.Context, ownerID string) error {
	c.mu.Lock()
	c.status = StatusLoading
	c.mu.Unlock()

	items, err := c.gateway.List(ctx, ownerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = StatusFailed
		c.logger.Error("Failed to refresh note list", zap.Error(err))
		return err
	}

	c.items = items
	c.resort()
	c.status = StatusReady
	return nil
}

// ApplyLocalUpsert inserts the item, or replaces the entry with the same id,
// then restores the ordering invariant. Applying the same item twice is a
// no-op the second time.
func (c *Collection) ApplyLocalUpsert(item models.NoteListItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	replaced := false
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, item)
	}
	c.resort()
}

// ApplyLocalRemoval removes the entry with the given id; no-op if absent.
func (c *Collection) ApplyLocalRemoval(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear drops all items and returns to the idle state. Used on logout.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.status = StatusIdle
}

// Items returns a copy of the current list.
func (c *Collection) Items() []models.NoteListItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.NoteListItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Status() CollectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Filter is a read-side projection: case-insensitive substring match on the
// title. Stored state is never touched.
func (c *Collection) Filter(query string) []models.NoteListItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	query = strings.ToLower(query)
	var out []models.NoteListItem
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Title), query) {
			out = append(out, item)
		}
	}
	return out
}

// resort re-establishes updated_at descending order. Callers hold the lock.
func (c *Collection) resort() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].UpdatedAt.After(c.items[j].UpdatedAt)
	})
}
