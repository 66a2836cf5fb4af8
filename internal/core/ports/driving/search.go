package driving

import (
	"context"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// SearchService runs unified searches across every entity kind of a workspace
type SearchService interface {
	// Search normalizes raw, fans out one query per kind and returns the
	// kind-tagged results the caller is allowed to see.
	Search(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error)
}
