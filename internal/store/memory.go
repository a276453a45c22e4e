// apps/go-solver/internal/store/memory.go
//
// In-memory implementation of the Store interface for solving sessions.
// Sessions hold their candidate set and are only useful while the process
// lives, so they are never written to disk; finished sessions are logged by
// GameLog instead.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via a Mutex; Get also refreshes the last-use time.
//   - ErrNotFound is returned for missing session IDs on Get().
//   - Prune drops sessions nobody has touched since a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store defines the persistence interface for solving sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int

	// Prune drops sessions last saved or read before cutoff and reports
	// how many went.
	Prune(cutoff time.Time) int
}

type entry struct {
	sess    *game.Session
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex        // guards sessions map
	sessions map[string]*entry // keyed by Session.ID()
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = &entry{sess: s, touched: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.touched = m.now()
		return e.sess, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *memory) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
