package driven

import (
	"context"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// PersonDirectory reads people (PostgreSQL users table)
type PersonDirectory interface {
	// Find returns workspace members matching the query, ordered by name
	Find(ctx context.Context, query domain.PersonQuery) ([]*domain.Person, error)

	// FindByIdentity resolves a display name or email among the workspace's
	// members, compared exactly and case-insensitively. An email match wins
	// over a name match, then the earliest created user. Returns ErrNotFound
	// when no member matches.
	FindByIdentity(ctx context.Context, workspaceID, value string) (*domain.Person, error)

	// Get retrieves a person by ID
	Get(ctx context.Context, id string) (*domain.Person, error)

	// GetByEmail retrieves a person by email
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, id string) error
}
