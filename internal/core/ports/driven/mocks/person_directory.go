package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

var _ driven.PersonDirectory = (*MockPersonDirectory)(nil)

// MockPersonDirectory is an in-memory PersonDirectory for testing
type MockPersonDirectory struct {
	faults
	mu      sync.RWMutex
	people  map[string]*domain.Person
	members map[string]map[string]bool
}

// NewMockPersonDirectory creates a new MockPersonDirectory
func NewMockPersonDirectory() *MockPersonDirectory {
	return &MockPersonDirectory{
		people:  make(map[string]*domain.Person),
		members: make(map[string]map[string]bool),
	}
}

// Save stores a person
func (m *MockPersonDirectory) Save(person *domain.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[person.ID] = person
}

// AddMember adds a person to a workspace
func (m *MockPersonDirectory) AddMember(workspaceID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[workspaceID] == nil {
		m.members[workspaceID] = make(map[string]bool)
	}
	m.members[workspaceID][userID] = true
}

// IsMember reports whether userID belongs to the workspace
func (m *MockPersonDirectory) IsMember(workspaceID, userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[workspaceID][userID]
}

func (m *MockPersonDirectory) Find(ctx context.Context, query domain.PersonQuery) ([]*domain.Person, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Person
	for id, p := range m.people {
		if m.members[query.WorkspaceID][id] && query.Matches(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result[:capLimit(len(result), query.Limit)], nil
}

// FindByIdentity orders candidates like the SQL store: email match first, then creation time, then ID
func (m *MockPersonDirectory) FindByIdentity(ctx context.Context, workspaceID, value string) (*domain.Person, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []*domain.Person
	for id, p := range m.people {
		if !m.members[workspaceID][id] {
			continue
		}
		if strings.EqualFold(p.Name, value) || strings.EqualFold(p.Email, value) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if ae, be := strings.EqualFold(a.Email, value), strings.EqualFold(b.Email, value); ae != be {
			return ae
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return matches[0], nil
}

func (m *MockPersonDirectory) Get(ctx context.Context, id string) (*domain.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.people[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockPersonDirectory) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.people {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPersonDirectory) UpdateLastLogin(ctx context.Context, id string) error {
	return nil
}
