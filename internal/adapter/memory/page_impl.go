package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

type pageRepository struct {
	mu    sync.RWMutex
	pages map[string]*entity.StoredPage
}

// NewPageRepository returns a PageRepository held in memory.
func NewPageRepository() repository.PageRepository {
	return &pageRepository{pages: make(map[string]*entity.StoredPage)}
}

func (r *pageRepository) Save(_ context.Context, page *entity.StoredPage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[page.ID]; ok {
		return repository.ErrPageExists
	}
	cp := *page
	r.pages[page.ID] = &cp
	return nil
}

func (r *pageRepository) List(_ context.Context, opts entity.ListOptions) ([]*entity.StoredPage, error) {
	r.mu.RLock()
	out := make([]*entity.StoredPage, 0, len(r.pages))
	for _, p := range r.pages {
		cp := *p
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *pageRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages), nil
}
