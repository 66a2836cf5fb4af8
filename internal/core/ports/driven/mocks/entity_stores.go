package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

var (
	_ driven.ChannelStore      = (*MockChannelStore)(nil)
	_ driven.ConversationStore = (*MockConversationStore)(nil)
	_ driven.MessageStore      = (*MockMessageStore)(nil)
	_ driven.DocumentStore     = (*MockDocumentStore)(nil)
)

// MockChannelStore is an in-memory ChannelStore for testing
type MockChannelStore struct {
	faults
	mu       sync.RWMutex
	channels map[string]*domain.Channel
}

// NewMockChannelStore creates a new MockChannelStore
func NewMockChannelStore() *MockChannelStore {
	return &MockChannelStore{channels: make(map[string]*domain.Channel)}
}

// Save stores a channel
func (m *MockChannelStore) Save(ch *domain.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.ID] = ch
}

// All returns every stored channel
func (m *MockChannelStore) All() []*domain.Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		out = append(out, ch)
	}
	return out
}

func (m *MockChannelStore) Find(ctx context.Context, query domain.ChannelQuery) ([]*domain.Channel, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	var result []*domain.Channel
	for _, ch := range m.All() {
		if query.Matches(ch) {
			result = append(result, ch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result[:capLimit(len(result), query.Limit)], nil
}

// MockConversationStore is an in-memory ConversationStore for testing
type MockConversationStore struct {
	faults
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{conversations: make(map[string]*domain.Conversation)}
}

// Save stores a conversation
func (m *MockConversationStore) Save(c *domain.Conversation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[c.ID] = c
}

// All returns every stored conversation
func (m *MockConversationStore) All() []*domain.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		out = append(out, c)
	}
	return out
}

func (m *MockConversationStore) Find(ctx context.Context, query domain.ConversationQuery) ([]*domain.Conversation, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	var result []*domain.Conversation
	for _, c := range m.All() {
		if query.Matches(c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result[:capLimit(len(result), query.Limit)], nil
}

// MockMessageStore is an in-memory MessageStore for testing.
// Conversation participation is read from the conversation store, like the
// subquery the Postgres store runs.
type MockMessageStore struct {
	faults
	mu            sync.RWMutex
	messages      map[string]*domain.Message
	queries       []domain.MessageQuery
	conversations *MockConversationStore
}

// NewMockMessageStore creates a new MockMessageStore. conversations may be nil.
func NewMockMessageStore(conversations *MockConversationStore) *MockMessageStore {
	return &MockMessageStore{messages: make(map[string]*domain.Message), conversations: conversations}
}

// Save stores a message
func (m *MockMessageStore) Save(msg *domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = msg
}

// LastQuery returns the most recent query passed to Find
func (m *MockMessageStore) LastQuery() (domain.MessageQuery, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.queries) == 0 {
		return domain.MessageQuery{}, false
	}
	return m.queries[len(m.queries)-1], true
}

func (m *MockMessageStore) Find(ctx context.Context, query domain.MessageQuery) ([]*domain.Message, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	inConversation := m.participation(query.WorkspaceID, query.CallerID)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Message
	for _, msg := range m.messages {
		if query.MatchesIn(msg, inConversation) {
			result = append(result, msg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result[:capLimit(len(result), query.Limit)], nil
}

func (m *MockMessageStore) participation(workspaceID, callerID string) func(string) bool {
	if m.conversations == nil {
		return nil
	}
	joined := make(map[string]bool)
	for _, c := range m.conversations.All() {
		if c.WorkspaceID == workspaceID && c.HasParticipant(callerID) {
			joined[c.ID] = true
		}
	}
	return func(conversationID string) bool { return joined[conversationID] }
}

// MockDocumentStore is an in-memory DocumentStore for testing
type MockDocumentStore struct {
	faults
	mu        sync.RWMutex
	documents map[string]*domain.Document
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{documents: make(map[string]*domain.Document)}
}

// Save stores a document
func (m *MockDocumentStore) Save(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
}

func (m *MockDocumentStore) Find(ctx context.Context, query domain.DocumentQuery) ([]*domain.Document, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Document
	for _, doc := range m.documents {
		if query.Matches(doc) {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result[:capLimit(len(result), query.Limit)], nil
}
