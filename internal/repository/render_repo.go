package repository

import (
	"context"

	"github.com/user/hallucination-cache/internal/entity"
)

// RenderOracle loads a document in a real browser engine and decides whether it
// renders acceptably.
type RenderOracle interface {
	// Validate returns a verdict for the document. A non-nil error means the
	// engine could not produce a verdict at all (timeout, crash, I/O).
	Validate(ctx context.Context, html string) (*entity.RenderResult, error)
}

// BrowserEngine is the lifecycle of the shared browser instance.
type BrowserEngine interface {
	Open(ctx context.Context) error
	Close() error
}
