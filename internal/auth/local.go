package auth

import (
	"fmt"
	"sync"

	"github.com/xaenox/notedesk/internal/models"
)

// LocalProvider holds the session in process memory and fans session-change
// events out to subscribers. It backs local development and tests; a real
// deployment substitutes the hosted identity provider behind the same
// interface.
type LocalProvider struct {
	mu     sync.Mutex
	userID string
	subs   []chan Event
	closed bool
}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (p *LocalProvider) SignIn(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.userID = userID
	p.notify(Event{Type: SignedIn, UserID: userID})
}

func (p *LocalProvider) CurrentUserID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.userID == "" {
		return "", fmt.Errorf("no active session: %w", models.ErrUnauthenticated)
	}
	return p.userID, nil
}

func (p *LocalProvider) SignOut() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.userID == "" {
		return nil
	}
	p.userID = ""
	p.notify(Event{Type: SignedOut})
	return nil
}

func (p *LocalProvider) Subscribe() <-chan Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Buffered so a slow consumer cannot stall SignIn/SignOut.
	ch := make(chan Event, 8)
	p.subs = append(p.subs, ch)
	return ch
}

// Close shuts the provider down and closes all subscriber channels.
func (p *LocalProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}

func (p *LocalProvider) notify(event Event) {
	for _, ch := range p.subs {
		select {
		case ch <- event:
		default:
			// Drop rather than block when a subscriber's buffer is full.
		}
	}
}
