package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.ChannelStore      = (*ChannelStore)(nil)
	_ driven.ConversationStore = (*ConversationStore)(nil)
)

// ChannelStore implements driven.ChannelStore using PostgreSQL
type ChannelStore struct {
	db *DB
}

// NewChannelStore creates a new ChannelStore
func NewChannelStore(db *DB) *ChannelStore {
	return &ChannelStore{db: db}
}

// Save creates or updates a channel
func (s *ChannelStore) Save(ctx context.Context, ch *domain.Channel) error {
	query := `
		INSERT INTO channels (id, workspace_id, name, title, description, member_ids, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			member_ids = EXCLUDED.member_ids,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		ch.ID, ch.WorkspaceID, ch.Name, ch.Title, ch.Description,
		pq.Array(ch.MemberIDs), ch.CreatedBy, ch.CreatedAt, ch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save channel: %w", err)
	}
	return nil
}

// Find returns the member's channels whose name, title or description contains the pattern
func (s *ChannelStore) Find(ctx context.Context, q domain.ChannelQuery) ([]*domain.Channel, error) {
	query, args := channelFindSQL(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find channels: %w", err)
	}
	defer rows.Close()

	channels := []*domain.Channel{}
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(
			&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.Title, &ch.Description,
			pq.Array(&ch.MemberIDs), &ch.CreatedBy, &ch.CreatedAt, &ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find channels: %w", err)
	}
	return channels, nil
}

func channelFindSQL(q domain.ChannelQuery) (string, []interface{}) {
	var c clauses
	c.add("workspace_id = " + c.arg(q.WorkspaceID))
	c.add(c.arg(q.MemberID) + " = ANY(member_ids)")
	c.matchAny(string(q.Text), "name", "title", "description")

	query := `SELECT id, workspace_id, name, title, description, member_ids, created_by, created_at, updated_at FROM channels` +
		c.where() + ` ORDER BY name` + c.limit(q.Limit)
	return query, c.args
}

// ConversationStore implements driven.ConversationStore using PostgreSQL
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Save creates or updates a conversation
func (s *ConversationStore) Save(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, workspace_id, name, participant_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			participant_ids = EXCLUDED.participant_ids,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		conv.ID, conv.WorkspaceID, conv.Name, pq.Array(conv.ParticipantIDs), conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// Find returns the participant's conversations whose name contains the pattern
func (s *ConversationStore) Find(ctx context.Context, q domain.ConversationQuery) ([]*domain.Conversation, error) {
	query, args := conversationFindSQL(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*domain.Conversation{}
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID, &conv.WorkspaceID, &conv.Name, pq.Array(&conv.ParticipantIDs), &conv.CreatedAt, &conv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find conversations: %w", err)
	}
	return conversations, nil
}

func conversationFindSQL(q domain.ConversationQuery) (string, []interface{}) {
	var c clauses
	c.add("workspace_id = " + c.arg(q.WorkspaceID))
	c.add(c.arg(q.ParticipantID) + " = ANY(participant_ids)")
	c.matchAny(string(q.Text), "name")

	query := `SELECT id, workspace_id, name, participant_ids, created_at, updated_at FROM conversations` +
		c.where() + ` ORDER BY updated_at DESC` + c.limit(q.Limit)
	return query, c.args
}
