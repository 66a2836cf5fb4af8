package driven

import (
	"context"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// ObjectStore is the catalog of uploaded files.
// Search owns filename matching; the engine never inspects file bytes.
type ObjectStore interface {
	// Search returns file metadata matching the search, newest upload first
	Search(ctx context.Context, search domain.FileSearch) ([]*domain.File, error)

	// Put adds or replaces a file's catalog entry
	Put(ctx context.Context, file *domain.File) error

	// Delete removes a file's catalog entry
	Delete(ctx context.Context, id string) error
}
