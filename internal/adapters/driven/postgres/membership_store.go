package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MembershipStore = (*MembershipStore)(nil)

// MembershipStore resolves workspace, channel and conversation membership
type MembershipStore struct {
	db *DB
}

// NewMembershipStore creates a new MembershipStore
func NewMembershipStore(db *DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// SaveWorkspace creates or renames a workspace
func (s *MembershipStore) SaveWorkspace(ctx context.Context, ws *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, ws.ID, ws.Name, ws.CreatedAt, ws.UpdatedAt); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// AddMember adds a user to a workspace
func (s *MembershipStore) AddMember(ctx context.Context, workspaceID, userID string) error {
	query := `INSERT INTO workspace_members (workspace_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, workspaceID, userID); err != nil {
		return fmt.Errorf("add workspace member: %w", err)
	}
	return nil
}

const membershipQuery = `
	SELECT
		EXISTS (SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2),
		ARRAY(SELECT id FROM channels WHERE workspace_id = $1 AND $2 = ANY(member_ids) ORDER BY id),
		ARRAY(SELECT id FROM conversations WHERE workspace_id = $1 AND $2 = ANY(participant_ids) ORDER BY id)
`

// Membership resolves the user's access inside the workspace in one round trip
func (s *MembershipStore) Membership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error) {
	m := &domain.Membership{WorkspaceID: workspaceID, UserID: userID}
	var channels, conversations pq.StringArray

	err := s.db.QueryRowContext(ctx, membershipQuery, workspaceID, userID).Scan(
		&m.WorkspaceMember, &channels, &conversations,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve membership: %w", err)
	}

	m.ChannelIDs = []string(channels)
	m.ConversationIDs = []string(conversations)
	return m, nil
}
