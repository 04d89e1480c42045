package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. State is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	notices  map[string][]Notice
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		notices:  make(map[string][]Notice),
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.Forget()
		m.sessions[id] = s
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.notices, id)
	return nil
}

func (m *MemoryStore) PushNotice(_ context.Context, id string, n Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		m.sessions[id] = Session{ID: id}
	}
	m.notices[id] = append(m.notices[id], n)
	return nil
}

func (m *MemoryStore) PopNotices(_ context.Context, id string) ([]Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.notices[id]
	delete(m.notices, id)
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
