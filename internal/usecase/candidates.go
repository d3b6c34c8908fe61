package usecase

import (
	"strings"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/prompt"
	"github.com/user/hallucination-cache/pkg/utils"
)

// BuildCandidates pairs every model with every variant. Models are
// de-duplicated and shuffled per call; the list is variant-major, so all
// models get the most creative variant before any of them is retried with a
// more conservative one.
func BuildCandidates(models []string, variants []entity.Variant, rng prompt.Rand) []entity.Candidate {
	unique := utils.SplitCSV(strings.Join(models, ","))
	prompt.Shuffle(rng, unique)

	out := make([]entity.Candidate, 0, len(unique)*len(variants))
	for _, v := range variants {
		for _, m := range unique {
			out = append(out, entity.Candidate{Model: m, Variant: v})
		}
	}
	return out
}
