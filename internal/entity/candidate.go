package entity

// SamplingParams are the per-variant knobs sent with a completion request.
type SamplingParams struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	PresencePenalty  float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty float64 `json:"frequency_penalty,omitempty"`
	MaxTokens        int     `json:"max_tokens"`
}

// Variant is a named set of sampling parameters.
type Variant struct {
	Name   string
	Params SamplingParams
}

// Candidate is one (model, variant) pairing attempted during generation.
type Candidate struct {
	Model   string
	Variant Variant
}

func (c Candidate) String() string {
	return c.Model + " (" + c.Variant.Name + ")"
}

// CandidateIterator hands out a pre-built candidate sequence one at a time.
type CandidateIterator struct {
	items []Candidate
	pos   int
}

func NewCandidateIterator(items []Candidate) *CandidateIterator {
	return &CandidateIterator{items: items}
}

// Next returns the next candidate, or false once the sequence is exhausted.
func (it *CandidateIterator) Next() (Candidate, bool) {
	if it.pos >= len(it.items) {
		return Candidate{}, false
	}
	c := it.items[it.pos]
	it.pos++
	return c, true
}

func (it *CandidateIterator) Len() int { return len(it.items) }

// Remaining reports how many candidates Next has yet to hand out.
func (it *CandidateIterator) Remaining() int { return len(it.items) - it.pos }

// Message is one chat message sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single call against the completion endpoint.
type CompletionRequest struct {
	Model    string
	Messages []Message
	Params   SamplingParams
}
