package output

import (
	"context"

	"nexaplan/internal/domain/entity"
)

// SearchPort is a text search provider. Implementations return results in
// provider order and may return fewer than requested.
type SearchPort interface {
	Search(ctx context.Context, query string) ([]entity.SearchResult, error)
}
