package repository

import (
	"context"

	"github.com/user/hallucination-cache/internal/entity"
)

// PageRepository defines the contract for storing and listing generated pages.
type PageRepository interface {
	// Save persists a new page. It must return ErrPageExists rather than
	// overwrite a record with the same ID.
	Save(ctx context.Context, page *entity.StoredPage) error
	// List returns pages sorted newest first.
	List(ctx context.Context, opts entity.ListOptions) ([]*entity.StoredPage, error)
	// Count returns the number of stored pages.
	Count(ctx context.Context) (int, error)
}
