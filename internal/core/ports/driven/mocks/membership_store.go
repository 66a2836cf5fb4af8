package mocks

import (
	"context"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

var _ driven.MembershipStore = (*MockMembershipStore)(nil)

// MockMembershipStore derives membership from the other mocks, the same way
// the database derives it from the channel and conversation tables.
type MockMembershipStore struct {
	faults
	people        *MockPersonDirectory
	channels      *MockChannelStore
	conversations *MockConversationStore
}

// NewMockMembershipStore creates a MockMembershipStore over the given mocks
func NewMockMembershipStore(people *MockPersonDirectory, channels *MockChannelStore, conversations *MockConversationStore) *MockMembershipStore {
	return &MockMembershipStore{people: people, channels: channels, conversations: conversations}
}

func (m *MockMembershipStore) Membership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error) {
	if err := m.inject(ctx); err != nil {
		return nil, err
	}

	membership := &domain.Membership{
		WorkspaceID:     workspaceID,
		UserID:          userID,
		WorkspaceMember: m.people.IsMember(workspaceID, userID),
		ChannelIDs:      []string{},
		ConversationIDs: []string{},
	}
	for _, ch := range m.channels.All() {
		if ch.WorkspaceID == workspaceID && ch.HasMember(userID) {
			membership.ChannelIDs = append(membership.ChannelIDs, ch.ID)
		}
	}
	for _, c := range m.conversations.All() {
		if c.WorkspaceID == workspaceID && c.HasParticipant(userID) {
			membership.ConversationIDs = append(membership.ConversationIDs, c.ID)
		}
	}
	return membership, nil
}
