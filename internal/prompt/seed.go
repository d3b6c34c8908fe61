package prompt

import (
	"context"
	"strings"

	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/utils"
)

// maxFreshTries bounds the search for an unused idea before settling for a
// repeat.
const maxFreshTries = 200

// Composer assembles page seeds from the word pools and skips ideas the idea
// repository has already seen.
type Composer struct {
	ideas repository.IdeaRepository
	rng   Rand
}

func NewComposer(ideas repository.IdeaRepository, rng Rand) *Composer {
	return &Composer{ideas: ideas, rng: Locked(rng)}
}

// IdeaID is the key an idea is tracked under.
func IdeaID(seed string) string {
	return utils.HashText(seed)
}

// Compose builds one seed. Higher chaos adds more modifiers.
func (c *Composer) Compose(chaos float64) string {
	modCount := 0
	switch {
	case chaos >= 0.75:
		modCount = 2
	case chaos >= 0.45:
		modCount = 1
	}
	parts := []string{pick(c.rng, subjects) + " " + pick(c.rng, actions)}
	parts = append(parts, takeRandom(c.rng, modifiers, modCount)...)
	return strings.Join(parts, ", ")
}

// ComposeFresh returns a seed the idea repository has not seen. After
// maxFreshTries collisions it returns the last composition anyway.
func (c *Composer) ComposeFresh(ctx context.Context, chaos float64) (string, error) {
	var seed string
	for i := 0; i < maxFreshTries; i++ {
		seed = c.Compose(chaos)
		used, err := c.ideas.HasBeenUsed(ctx, IdeaID(seed))
		if err != nil {
			return "", err
		}
		if !used {
			return seed, nil
		}
	}
	return seed, nil
}

// MarkUsed records a seed as generated.
func (c *Composer) MarkUsed(ctx context.Context, seed string) error {
	return c.ideas.MarkUsed(ctx, IdeaID(seed))
}
