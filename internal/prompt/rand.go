package prompt

import (
	"math/rand/v2"
	"sync"
)

// Rand is the subset of math/rand/v2 the composer needs. *rand.Rand satisfies
// it; tests pass a seeded generator.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is safe for concurrent use.
var DefaultRand Rand = globalRand{}

func pick(r Rand, list []string) string {
	return list[r.IntN(len(list))]
}

// takeRandom returns up to n distinct elements of list in random order.
func takeRandom(r Rand, list []string, n int) []string {
	pool := append([]string(nil), list...)
	out := make([]string, 0, min(n, len(pool)))
	for len(pool) > 0 && len(out) < n {
		i := r.IntN(len(pool))
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return out
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](r Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Locked makes r safe to share between goroutines. A nil r yields DefaultRand.
func Locked(r Rand) Rand {
	switch r.(type) {
	case nil:
		return DefaultRand
	case globalRand, *lockedRand:
		return r
	}
	return &lockedRand{r: r}
}
