package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/metrics"
)

// Assembler gives a validated page its identity and persists it.
type Assembler interface {
	Assemble(ctx context.Context, page *entity.ValidatedPage) (*entity.StoredPage, error)
}

type assemblerUseCase struct {
	pages   repository.PageRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAssembler(pages repository.PageRepository, m *metrics.Metrics) Assembler {
	return &assemblerUseCase{pages: pages, metrics: m, now: time.Now}
}

// Assemble stamps the page with a time-ordered UUID and the current UTC time,
// then saves it. Pages are never updated after this point.
func (uc *assemblerUseCase) Assemble(ctx context.Context, page *entity.ValidatedPage) (*entity.StoredPage, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate page id: %w", err)
	}

	stored := &entity.StoredPage{
		ValidatedPage: *page,
		ID:            id.String(),
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.pages.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save page %s: %w", stored.ID, err)
	}
	uc.metrics.PagesGenerated.WithLabelValues(string(page.Mode)).Inc()
	return stored, nil
}
