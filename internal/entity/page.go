package entity

import "time"

// Mode tags the provenance of a validated page.
type Mode string

const (
	ModeDirect    Mode = "model-html"          // response was a standalone document
	ModeExtracted Mode = "model-extracted"     // document sliced out of a wrapper or JSON
	ModeWrapped   Mode = "model-wrapped"       // near-miss markup wrapped in a skeleton
	ModeFallback  Mode = "fallback-local-html" // no model output was accepted
)

// FromModel reports whether the page content was authored by a model.
func (m Mode) FromModel() bool {
	return m == ModeDirect || m == ModeExtracted || m == ModeWrapped
}

// ValidatedPage is a document that passed extraction, the safety filter and the
// render oracle, or the local fallback substituted for it.
type ValidatedPage struct {
	HTML        string         `json:"html"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Seed        string         `json:"seed"`
	Entropy     EntropyCapsule `json:"entropy"`
	Mode        Mode           `json:"mode"`
	Model       string         `json:"model,omitempty"`
	Variant     string         `json:"variant,omitempty"`
}

// StoredPage mirrors one persisted record: a validated page plus identity.
type StoredPage struct {
	ValidatedPage
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions narrows a page listing. A zero Limit means no limit.
type ListOptions struct {
	Limit int
}
