package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/notedesk/internal/models"
	"go.uber.org/zap"
)

func listItem(id, title string, updatedAt time.Time) models.NoteListItem {
	return models.NoteListItem{
		ID:        id,
		Title:     title,
		CreatedAt: updatedAt.Add(-time.Hour),
		UpdatedAt: updatedAt,
	}
}

func assertSortedUnique(t *testing.T, items []models.NoteListItem) {
	t.Helper()
	seen := make(map[string]bool)
	for i, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		if i > 0 {
			assert.False(t, items[i-1].UpdatedAt.Before(item.UpdatedAt),
				"items out of order at index %d", i)
		}
	}
}

func TestCollectionUpsertKeepsOrderAndUniqueness(t *testing.T) {
	c := NewCollection(&fakeGateway{}, zap.NewNop())
	base := time.Now().UTC()

	// Interleave inserts and replacements in scrambled time order.
	for i, offset := range []int{3, 1, 4, 1, 5, 9, 2, 6} {
		id := fmt.Sprintf("note-%d", offset)
		c.ApplyLocalUpsert(listItem(id, fmt.Sprintf("title %d", i), base.Add(time.Duration(offset)*time.Minute)))
		assertSortedUnique(t, c.Items())
	}
}

func TestCollectionUpsertIsIdempotent(t *testing.T) {
	c := NewCollection(&fakeGateway{}, zap.NewNop())
	item := listItem("a", "first", time.Now().UTC())

	c.ApplyLocalUpsert(item)
	once := c.Items()
	c.ApplyLocalUpsert(item)
	twice := c.Items()

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 1)
}

func TestCollectionUpsertRepositionsOnNewerTimestamp(t *testing.T) {
	c := NewCollection(&fakeGateway{}, zap.NewNop())
	t1 := time.Now().UTC()
	t2 := t1.Add(time.Minute)

	c.ApplyLocalUpsert(listItem("a", "A", t1))
	c.ApplyLocalUpsert(listItem("b", "B", t2))
	require.Equal(t, "b", c.Items()[0].ID)

	// Saving A moves it to the top.
	c.ApplyLocalUpsert(listItem("a", "A", t2.Add(time.Minute)))
	items := c.Items()
	assert.Equal(t, "a", items[0].ID)
	assertSortedUnique(t, items)
}

func TestCollectionRefreshOrdersNewestFirst(t *testing.T) {
	t1 := time.Now().UTC()
	t2 := t1.Add(time.Minute)
	gw := &fakeGateway{
		listFunc: func(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
			// Server-side order is not trusted.
			return []models.NoteListItem{
				listItem("a", "A", t1),
				listItem("b", "B", t2),
			}, nil
		},
	}
	c := NewCollection(gw, zap.NewNop())

	require.NoError(t, c.Refresh(context.Background(), "u1"))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, StatusReady, c.Status())
}

func TestCollectionRefreshFailurePreservesItems(t *testing.T) {
	fail := false
	gw := &fakeGateway{
		listFunc: func(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
			if fail {
				return nil, fmt.Errorf("boom: %w", models.ErrRemoteUnavailable)
			}
			return []models.NoteListItem{listItem("a", "A", time.Now().UTC())}, nil
		},
	}
	c := NewCollection(gw, zap.NewNop())

	require.NoError(t, c.Refresh(context.Background(), "u1"))
	require.Len(t, c.Items(), 1)

	fail = true
	err := c.Refresh(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, c.Status())
	// Stale data beats a blanked list.
	assert.Len(t, c.Items(), 1)
}

func TestCollectionRemoval(t *testing.T) {
	c := NewCollection(&fakeGateway{}, zap.NewNop())
	c.ApplyLocalUpsert(listItem("a", "A", time.Now().UTC()))

	c.ApplyLocalRemoval("missing")
	assert.Len(t, c.Items(), 1)

	c.ApplyLocalRemoval("a")
	assert.Empty(t, c.Items())
}

func TestCollectionFilter(t *testing.T) {
	c := NewCollection(&fakeGateway{}, zap.NewNop())
	now := time.Now().UTC()
	c.ApplyLocalUpsert(listItem("a", "Groceries", now))
	c.ApplyLocalUpsert(listItem("b", "Meeting notes", now.Add(time.Second)))
	c.ApplyLocalUpsert(listItem("c", "More groceries", now.Add(2*time.Second)))

	matches := c.Filter("GROCER")
	require.Len(t, matches, 2)
	assert.Equal(t, "c", matches[0].ID)

	// Filtering is a projection; stored state is untouched.
	assert.Len(t, c.Items(), 3)
}
