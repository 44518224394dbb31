package models

import (
	"time"
)

// DefaultTitle is the placeholder title assigned to newly created notes.
const DefaultTitle = "Untitled Note"

// Note is the full record held by the remote store. The editing session
// keeps a local mutable copy of title/content/summary while a note is open.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListItem is the projection of Note the list view renders from.
// Content and summary are deliberately excluded to keep the list light.
type NoteListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteUpdate describes a partial write. Nil fields are left untouched.
type NoteUpdate struct {
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	Summary   *string    `json:"summary,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ListItemOf projects a full note onto its list representation.
func ListItemOf(n Note) NoteListItem {
	return NoteListItem{
		ID:        n.ID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
