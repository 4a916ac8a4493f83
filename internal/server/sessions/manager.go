// Package sessions keeps the in-memory registry of authenticated sessions.
// Nothing here is persisted: a process restart invalidates every session.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side state for one authenticated user.
type Session struct {
	ID              string
	Username        string
	AuthenticatedAt time.Time
	LastSeen        time.Time
}

// Manager owns the session map and applies the idle timeout on access: a
// session that has been idle longer than the timeout is evicted the moment
// anyone asks for it, so no background pass is required for correctness
// (PurgeExpired just reclaims memory earlier).
type Manager struct {
	mu   sync.Mutex
	byID map[string]*Session
	idle time.Duration
	now  func() time.Time // test seam
}

func NewManager(idleTimeout time.Duration) *Manager {
	return &Manager{
		byID: make(map[string]*Session),
		idle: idleTimeout,
		now:  time.Now,
	}
}

// Create registers a new session for username and returns it.
func (m *Manager) Create(username string) *Session {
	now := m.now()
	s := &Session{
		ID:              uuid.NewString(),
		Username:        username,
		AuthenticatedAt: now,
		LastSeen:        now,
	}

	m.mu.Lock()
	m.byID[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the live session with the given ID and refreshes its idle
// clock. An expired session is deleted and reported as absent.
func (m *Manager) Get(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	if now.Sub(s.LastSeen) > m.idle {
		delete(m.byID, id)
		return nil, false
	}

	s.LastSeen = now
	out := *s
	return &out, true
}

// Delete removes a session, ending it immediately.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}

// PurgeExpired drops idle sessions and returns how many were removed.
func (m *Manager) PurgeExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int
	for id, s := range m.byID {
		if now.Sub(s.LastSeen) > m.idle {
			delete(m.byID, id)
			removed++
		}
	}
	return removed
}
