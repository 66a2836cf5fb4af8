package driven

import (
	"context"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// ChannelStore reads channels
type ChannelStore interface {
	Find(ctx context.Context, query domain.ChannelQuery) ([]*domain.Channel, error)
}

// ConversationStore reads direct and group conversations
type ConversationStore interface {
	Find(ctx context.Context, query domain.ConversationQuery) ([]*domain.Conversation, error)
}

// MessageStore reads messages, newest first
type MessageStore interface {
	Find(ctx context.Context, query domain.MessageQuery) ([]*domain.Message, error)
}

// DocumentStore reads shared canvas documents
type DocumentStore interface {
	Find(ctx context.Context, query domain.DocumentQuery) ([]*domain.Document, error)
}

// MembershipStore resolves which channels and conversations a user belongs to
type MembershipStore interface {
	// Membership never returns ErrNotFound; a stranger gets WorkspaceMember=false.
	Membership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error)
}
