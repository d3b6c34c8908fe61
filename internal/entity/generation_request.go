package entity

import "time"

// EntropyCapsule bundles the randomized style and constraint parameters attached
// to one generation attempt.
type EntropyCapsule struct {
	Chaos          float64   `json:"chaos"`
	Nonce          string    `json:"nonce"`
	HRTick         string    `json:"hr_tick"`
	PIDSalt        string    `json:"pid_salt"`
	JitterMS       int       `json:"jitter_ms"`
	Style          string    `json:"style"`
	ColorDirection string    `json:"color_direction"`
	LayoutType     string    `json:"layout_type"`
	Laws           []string  `json:"laws"`
	Artifacts      []string  `json:"artifacts"`
	Taboo          []string  `json:"taboo"`
	SymbolFlux     string    `json:"symbol_flux"`
	Fingerprint    string    `json:"entropy_fingerprint"`
	CatMode        bool      `json:"cat_mode,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// GenerationRequest describes a single page attempt. It is built once and
// treated as read-only by every stage of the pipeline.
type GenerationRequest struct {
	Seed    string
	Entropy EntropyCapsule
	Strict  bool
}

// NewGenerationRequest copies the capsule's slices so later mutation by the
// caller cannot leak into an attempt in flight.
func NewGenerationRequest(seed string, entropy EntropyCapsule, strict bool) GenerationRequest {
	entropy.Laws = append([]string(nil), entropy.Laws...)
	entropy.Artifacts = append([]string(nil), entropy.Artifacts...)
	entropy.Taboo = append([]string(nil), entropy.Taboo...)
	return GenerationRequest{Seed: seed, Entropy: entropy, Strict: strict}
}
