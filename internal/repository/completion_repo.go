package repository

import (
	"context"

	"github.com/user/hallucination-cache/internal/entity"
)

// CompletionClient issues chat completion requests against a model endpoint.
type CompletionClient interface {
	// Complete returns the generated text of the first choice.
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}
