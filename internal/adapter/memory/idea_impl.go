package memory

import (
	"context"
	"sync"

	"github.com/user/hallucination-cache/internal/repository"
)

type ideaRepository struct {
	mu   sync.RWMutex
	used map[string]struct{}
}

// NewIdeaRepository returns a process-local IdeaRepository. Marks are lost on
// exit.
func NewIdeaRepository() repository.IdeaRepository {
	return &ideaRepository{used: make(map[string]struct{})}
}

func (r *ideaRepository) HasBeenUsed(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.used[id]
	return ok, nil
}

func (r *ideaRepository) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used[id] = struct{}{}
	return nil
}
