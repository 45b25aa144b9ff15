package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
)

// MemoryStore keeps sessions in a map. Used for tests, the simulation
// harness, and STORE_BACKEND=memory deployments where persistence
// across restarts does not matter.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*interview.Session)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateSession(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = copySession(s)
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s), nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, id string, difficulty interview.Level, history []interview.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Difficulty = difficulty
	s.History = append([]interview.Entry(nil), history...)
	return nil
}

func (m *MemoryStore) ListSessionsByOwner(_ context.Context, ownerID string) ([]*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*interview.Session
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			sessions = append(sessions, copySession(s))
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (m *MemoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// copySession returns a deep enough copy that callers cannot mutate
// stored state without going through UpdateSession.
func copySession(s *interview.Session) *interview.Session {
	out := *s
	out.History = append([]interview.Entry(nil), s.History...)
	return &out
}
