// internal/store/memory.go
//
// In-memory registry of running game sessions.
//
// Characteristics:
//   - Stores *session.Session values keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; games are single-session by nature.
//   - Sweep evicts sessions nobody has touched for a while and stops them.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samhallam03/GettingReadySnake/internal/session"
)

// ErrNotFound is returned by Get for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save adds or replaces a session under its ID.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the game is unknown.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete stops and removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports the number of registered sessions.
	Len() int

	// Sweep stops and removes sessions idle for longer than idle,
	// and sessions whose loop has already exited. Returns removed IDs.
	Sweep(idle time.Duration) []string
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                // guards sessions map
	sessions map[string]*session.Session // keyed by game ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[s.ID()]; ok && old != s {
		old.Stop()
	}
	m.sessions[s.ID()] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Stop()
	}
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(idle time.Duration) []string {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	var evicted []*session.Session
	var ids []string
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) || isDone(s) {
			evicted = append(evicted, s)
			ids = append(ids, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.Stop()
	}
	return ids
}

func isDone(s *session.Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}
