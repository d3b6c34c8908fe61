package repository

import "context"

// IdeaRepository tracks which page ideas have already been generated.
type IdeaRepository interface {
	// HasBeenUsed checks if an idea ID was marked before.
	HasBeenUsed(ctx context.Context, id string) (bool, error)
	// MarkUsed records an idea ID.
	MarkUsed(ctx context.Context, id string) error
}
