package prompt

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hallucination-cache/internal/adapter/memory"
	"github.com/user/hallucination-cache/internal/entity"
)

func seeded() Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestVariants_ChaosScalesCreativeOnly(t *testing.T) {
	vs := Variants(0.9)
	require.Len(t, vs, 3)

	assert.Equal(t, "creative", vs[0].Name)
	assert.Equal(t, 1.25, vs[0].Params.Temperature)
	assert.Equal(t, 0.98, vs[0].Params.TopP)
	assert.Equal(t, 0.56, vs[0].Params.PresencePenalty)
	assert.Equal(t, 0.37, vs[0].Params.FrequencyPenalty)
	assert.Equal(t, 16000, vs[0].Params.MaxTokens)

	assert.Equal(t, entity.Variant{Name: "compat", Params: entity.SamplingParams{Temperature: 0.9, TopP: 0.95, MaxTokens: 12000}}, vs[1])
	assert.Equal(t, entity.Variant{Name: "safe", Params: entity.SamplingParams{Temperature: 0.7, TopP: 0.9, MaxTokens: 10000}}, vs[2])

	assert.Equal(t, 0.8, Variants(0)[0].Params.Temperature)
	assert.Equal(t, 1.3, Variants(1)[0].Params.Temperature)
}

func TestCompose_ModifierCountFollowsChaos(t *testing.T) {
	c := NewComposer(memory.NewIdeaRepository(), seeded())
	for chaos, commas := range map[float64]int{0.1: 0, 0.5: 1, 0.9: 2} {
		for i := 0; i < 20; i++ {
			seed := c.Compose(chaos)
			assert.Equal(t, commas, strings.Count(seed, ", "), "chaos %.1f seed %q", chaos, seed)
		}
	}
}

func TestComposeFresh_SkipsUsedIdeas(t *testing.T) {
	ctx := context.Background()
	ideas := memory.NewIdeaRepository()
	c := NewComposer(ideas, seeded())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seed, err := c.ComposeFresh(ctx, 0.9)
		require.NoError(t, err)
		assert.False(t, seen[seed], "seed %q repeated", seed)
		seen[seed] = true
		require.NoError(t, c.MarkUsed(ctx, seed))
	}
}

func TestComposeFresh_GivesUpAfterBoundedTries(t *testing.T) {
	ctx := context.Background()
	ideas := &alwaysUsed{}
	c := NewComposer(ideas, seeded())

	seed, err := c.ComposeFresh(ctx, 0.2)
	require.NoError(t, err)
	assert.NotEmpty(t, seed)
	assert.Equal(t, maxFreshTries, ideas.calls)
}

type alwaysUsed struct{ calls int }

func (a *alwaysUsed) HasBeenUsed(context.Context, string) (bool, error) {
	a.calls++
	return true, nil
}
func (a *alwaysUsed) MarkUsed(context.Context, string) error { return nil }

func TestNewEntropyCapsule(t *testing.T) {
	e := NewEntropyCapsule(0.88, seeded())

	assert.Equal(t, 0.88, e.Chaos)
	assert.Len(t, e.Laws, 3)
	assert.Len(t, e.Artifacts, 4)
	assert.Len(t, e.Taboo, 3)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{18}$`), e.Fingerprint)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{20}$`), e.Nonce)
	assert.Len(t, e.PIDSalt, 10)
	assert.GreaterOrEqual(t, len(e.SymbolFlux), 9)
	assert.LessOrEqual(t, len(e.SymbolFlux), 18)
	assert.GreaterOrEqual(t, e.JitterMS, 7)
	assert.LessOrEqual(t, e.JitterMS, 997)
	assert.NotEmpty(t, e.Style)
	assert.False(t, e.Timestamp.IsZero())

	clamped := NewEntropyCapsule(4, seeded())
	assert.Equal(t, 1.0, clamped.Chaos)
	assert.Len(t, clamped.Artifacts, 5)
}

func TestNewEntropyCapsule_FingerprintsDiffer(t *testing.T) {
	r := seeded()
	a := NewEntropyCapsule(0.5, r)
	b := NewEntropyCapsule(0.5, r)
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}

func TestBuildMessages(t *testing.T) {
	e := entity.EntropyCapsule{
		Fingerprint: "0123456789abcdef01",
		Style:       "retro terminal",
		Taboo:       []string{"synergy", "cloud"},
		Artifacts:   []string{"a ticker", "a form"},
		Laws:        []string{"no vowels", "all caps"},
		SymbolFlux:  "#@!",
	}
	msgs := BuildMessages(entity.NewGenerationRequest("a goose bank", e, false))
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "<!doctype html>")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Seed concept: a goose bank")
	assert.Contains(t, msgs[1].Content, "Do not use these words: synergy, cloud")
	assert.Contains(t, msgs[1].Content, "Site law constraints: no vowels | all caps")
	assert.NotContains(t, msgs[1].Content, "cat-themed")

	e.CatMode = true
	msgs = BuildMessages(entity.NewGenerationRequest("a goose bank", e, false))
	assert.Contains(t, msgs[1].Content, "cat-themed")
}

func TestShuffle_KeepsElements(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	Shuffle(seeded(), items)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, items)
}
