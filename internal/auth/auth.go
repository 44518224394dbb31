package auth

// EventType describes a session change.
type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// Event is delivered to subscribers whenever the session changes.
type Event struct {
	Type   EventType
	UserID string
}

// Provider is the authentication boundary. CurrentUserID returns
// models.ErrUnauthenticated while signed out.
type Provider interface {
	CurrentUserID() (string, error)
	SignOut() error

	// Subscribe returns a channel that receives session-change events.
	// The channel is closed when the provider shuts down.
	Subscribe() <-chan Event
}
