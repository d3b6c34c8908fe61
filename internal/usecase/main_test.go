package usecase

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"

	"github.com/user/hallucination-cache/internal/adapter/chromedp_oracle"
	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/prompt"
	"github.com/user/hallucination-cache/pkg/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const validDoc = `<!doctype html><html><head><title>Ministry of Soup</title></head>` +
	`<body><h1>Soup</h1><p>Plenty of visible text for the render check.</p></body></html>`

func newMetrics() *metrics.Metrics { return metrics.New(prometheus.NewRegistry()) }

func seededRand() prompt.Rand { return rand.New(rand.NewPCG(7, 11)) }

func testRequest(strict bool) entity.GenerationRequest {
	return entity.NewGenerationRequest("a goose consulting firm sells weather", entity.EntropyCapsule{
		Chaos:       0.9,
		Fingerprint: "0123456789abcdef01",
		Laws:        []string{"All buttons must negotiate before being clicked."},
		Artifacts:   []string{"a live ticker", "a fake checkout"},
		Taboo:       []string{"synergy"},
	}, strict)
}

// scriptedCompletion answers each call with the next scripted step.
type scriptedCompletion struct {
	mu       sync.Mutex
	steps    []func(entity.CompletionRequest) (string, error)
	requests []entity.CompletionRequest
	inFlight int
	maxLive  int
}

func (s *scriptedCompletion) Complete(_ context.Context, req entity.CompletionRequest) (string, error) {
	s.mu.Lock()
	s.inFlight++
	s.maxLive = max(s.maxLive, s.inFlight)
	i := len(s.requests)
	s.requests = append(s.requests, req)
	step := s.steps[min(i, len(s.steps)-1)]
	s.mu.Unlock()

	out, err := step(req)

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return out, err
}

func (s *scriptedCompletion) calls() []entity.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CompletionRequest(nil), s.requests...)
}

func respond(out string) func(entity.CompletionRequest) (string, error) {
	return func(entity.CompletionRequest) (string, error) { return out, nil }
}

func fail(err error) func(entity.CompletionRequest) (string, error) {
	return func(entity.CompletionRequest) (string, error) { return "", err }
}

// textOracle approximates the browser: it measures body text without script
// and style content and applies the real acceptance rules.
type textOracle struct{}

func (textOracle) Validate(_ context.Context, html string) (*entity.RenderResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, head").Remove()
	text := strings.TrimSpace(doc.Find("body").Text())
	return chromedp_oracle.Evaluate(text, nil, chromedp_oracle.DefaultCriteria()), nil
}
