package prompt

import (
	"math"

	"github.com/user/hallucination-cache/internal/entity"
)

// Variants returns the sampling variants from most creative to most
// conservative. Only the creative variant scales with chaos: chaos 0..1 maps
// temperature to 0.8..1.3, which keeps output valid HTML.
func Variants(chaos float64) []entity.Variant {
	return []entity.Variant{
		{
			Name: "creative",
			Params: entity.SamplingParams{
				Temperature:      round2(0.8 + chaos*0.5),
				TopP:             round2(0.85 + chaos*0.14),
				PresencePenalty:  round2(0.2 + chaos*0.4),
				FrequencyPenalty: round2(0.1 + chaos*0.3),
				MaxTokens:        16000,
			},
		},
		{
			Name:   "compat",
			Params: entity.SamplingParams{Temperature: 0.9, TopP: 0.95, MaxTokens: 12000},
		},
		{
			Name:   "safe",
			Params: entity.SamplingParams{Temperature: 0.7, TopP: 0.9, MaxTokens: 10000},
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
