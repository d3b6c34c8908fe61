package response

import (
	"time"

	"github.com/user/hallucination-cache/internal/entity"
)

// PageSummary is a stored page without its document body.
type PageSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Seed        string    `json:"seed"`
	Mode        string    `json:"mode"`
	Model       string    `json:"model,omitempty"`
	Variant     string    `json:"variant,omitempty"`
	Fingerprint string    `json:"entropy_fingerprint"`
	SizeBytes   int       `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type PageListResponse struct {
	Pages []PageSummary `json:"pages"`
}

type PageCountResponse struct {
	Count int `json:"count"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Pages  int    `json:"pages"`
}

func NewPageSummary(p *entity.StoredPage) PageSummary {
	return PageSummary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Seed:        p.Seed,
		Mode:        string(p.Mode),
		Model:       p.Model,
		Variant:     p.Variant,
		Fingerprint: p.Entropy.Fingerprint,
		SizeBytes:   len(p.HTML),
		CreatedAt:   p.CreatedAt,
	}
}
