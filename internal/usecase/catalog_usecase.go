package usecase

import (
	"context"
	"errors"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/metrics"
)

var ErrInvalidLimit = errors.New("limit must be between 1 and 200")

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Catalog answers read-only questions about the stored pages.
type Catalog interface {
	Recent(ctx context.Context, limit int) ([]*entity.StoredPage, error)
	Count(ctx context.Context) (int, error)
}

type catalogUseCase struct {
	pages   repository.PageRepository
	metrics *metrics.Metrics
}

func NewCatalog(pages repository.PageRepository, m *metrics.Metrics) Catalog {
	return &catalogUseCase{pages: pages, metrics: m}
}

// Recent returns the newest pages. A zero limit uses the default.
func (uc *catalogUseCase) Recent(ctx context.Context, limit int) ([]*entity.StoredPage, error) {
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 0 || limit > maxListLimit {
		return nil, ErrInvalidLimit
	}
	return uc.pages.List(ctx, entity.ListOptions{Limit: limit})
}

func (uc *catalogUseCase) Count(ctx context.Context) (int, error) {
	n, err := uc.pages.Count(ctx)
	if err != nil {
		return 0, err
	}
	uc.metrics.PagesStored.Set(float64(n))
	return n, nil
}
