package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO documents (id, workspace_id, channel_id, title, content, owner_id, collaborator_ids, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			collaborator_ids = EXCLUDED.collaborator_ids,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID, doc.WorkspaceID, NullString(doc.ChannelID), doc.Title, doc.Content, doc.OwnerID,
		pq.Array(doc.CollaboratorIDs), metadataJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Find returns documents shared with the collaborator whose title contains the pattern
func (s *DocumentStore) Find(ctx context.Context, q domain.DocumentQuery) ([]*domain.Document, error) {
	query, args := documentFindSQL(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		var (
			doc       domain.Document
			channelID *string
			metadata  []byte
		)
		if err := rows.Scan(
			&doc.ID, &doc.WorkspaceID, &channelID, &doc.Title, &doc.Content, &doc.OwnerID,
			pq.Array(&doc.CollaboratorIDs), &metadata, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if channelID != nil {
			doc.ChannelID = *channelID
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("decode document metadata: %w", err)
			}
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	return docs, nil
}

func documentFindSQL(q domain.DocumentQuery) (string, []interface{}) {
	var c clauses
	c.add("workspace_id = " + c.arg(q.WorkspaceID))
	c.add(c.arg(q.CollaboratorID) + " = ANY(collaborator_ids)")
	c.matchAny(string(q.Text), "title")

	query := `SELECT id, workspace_id, channel_id, title, content, owner_id, collaborator_ids, metadata, created_at, updated_at FROM documents` +
		c.where() + ` ORDER BY updated_at DESC` + c.limit(q.Limit)
	return query, c.args
}
