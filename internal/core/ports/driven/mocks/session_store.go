package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

var _ driven.SessionStore = (*MockSessionStore)(nil)

// MockSessionStore keeps sessions in memory with the same lookup indexes as the real stores
type MockSessionStore struct {
	mu             sync.RWMutex
	sessions       map[string]*domain.Session
	byToken        map[string]string
	byRefreshToken map[string]string
	byUser         map[string]map[string]struct{}
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	m := &MockSessionStore{}
	m.Reset()
	return m
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(session.ID)

	m.sessions[session.ID] = session
	m.byToken[session.Token] = session.ID
	if session.RefreshToken != "" {
		m.byRefreshToken[session.RefreshToken] = session.ID
	}
	if m.byUser[session.UserID] == nil {
		m.byUser[session.UserID] = make(map[string]struct{})
	}
	m.byUser[session.UserID][session.ID] = struct{}{}
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live(id)
}

func (m *MockSessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live(m.byToken[token])
}

func (m *MockSessionStore) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live(m.byRefreshToken[refreshToken])
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(id)
	return nil
}

func (m *MockSessionStore) DeleteByToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(m.byToken[token])
	return nil
}

func (m *MockSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.byUser[userID] {
		m.remove(id)
	}
	delete(m.byUser, userID)
	return nil
}

func (m *MockSessionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := []*domain.Session{}
	for id := range m.byUser[userID] {
		if s, err := m.live(id); err == nil {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions, nil
}

// live returns the session unless it is missing or expired; expired sessions act like evicted keys
func (m *MockSessionStore) live(id string) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok || s.IsExpired() {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *MockSessionStore) remove(id string) {
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	delete(m.byToken, s.Token)
	if s.RefreshToken != "" {
		delete(m.byRefreshToken, s.RefreshToken)
	}
	if ids := m.byUser[s.UserID]; ids != nil {
		delete(ids, id)
	}
}

// Reset drops every session
func (m *MockSessionStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*domain.Session)
	m.byToken = make(map[string]string)
	m.byRefreshToken = make(map[string]string)
	m.byUser = make(map[string]map[string]struct{})
}

// Count returns the number of stored sessions, expired ones included
func (m *MockSessionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
