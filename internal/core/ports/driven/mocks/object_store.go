package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

var _ driven.ObjectStore = (*MockObjectStore)(nil)

// MockObjectStore is an in-memory file catalog for testing
type MockObjectStore struct {
	faults
	mu    sync.RWMutex
	files map[string]*domain.File
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{files: make(map[string]*domain.File)}
}

func (m *MockObjectStore) Search(ctx context.Context, search domain.FileSearch) ([]*domain.File, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.File
	for _, f := range m.files {
		if search.Matches(f) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UploadedAt.After(result[j].UploadedAt) })
	return result[:capLimit(len(result), search.Limit)], nil
}

func (m *MockObjectStore) Put(ctx context.Context, file *domain.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[file.ID] = file
	return nil
}

func (m *MockObjectStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
	return nil
}
