package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/htmldoc"
	"github.com/user/hallucination-cache/internal/prompt"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/metrics"
)

const (
	DefaultRetryBackoff = 250 * time.Millisecond

	maxTitleSeedRunes = 55
)

// Orchestrator turns one generation request into a validated page.
type Orchestrator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.ValidatedPage, error)
}

// OrchestratorConfig controls candidate construction and pacing.
type OrchestratorConfig struct {
	Models       []string
	RetryBackoff time.Duration
}

type orchestratorUseCase struct {
	completion repository.CompletionClient
	oracle     repository.RenderOracle
	cfg        OrchestratorConfig
	rng        prompt.Rand
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewOrchestrator wires the completion client and render oracle into the
// retry driver.
func NewOrchestrator(
	completion repository.CompletionClient,
	oracle repository.RenderOracle,
	cfg OrchestratorConfig,
	rng prompt.Rand,
	m *metrics.Metrics,
	logger *zap.Logger,
) Orchestrator {
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	return &orchestratorUseCase{
		completion: completion,
		oracle:     oracle,
		cfg:        cfg,
		rng:        prompt.Locked(rng),
		metrics:    m,
		logger:     logger,
	}
}

// Generate walks the candidate list one attempt at a time. Any failure of a
// single attempt moves on to the next candidate after a short pause, except
// for credential failures, which end the request at once. When every
// candidate has failed, strict requests return ErrCandidatesExhausted and the
// rest get the local fallback page.
func (uc *orchestratorUseCase) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.ValidatedPage, error) {
	candidates := entity.NewCandidateIterator(
		BuildCandidates(uc.cfg.Models, prompt.Variants(req.Entropy.Chaos), uc.rng),
	)
	messages := prompt.BuildMessages(req)

	var lastErr error
	for {
		c, ok := candidates.Next()
		if !ok {
			break
		}

		uc.logger.Debug("Requesting completion", zap.String("model", c.Model), zap.String("variant", c.Variant.Name))
		page, err := uc.attempt(ctx, req, c, messages)
		if err == nil {
			return page, nil
		}

		if errors.Is(err, repository.ErrAuthentication) || errors.Is(err, repository.ErrEngineClosed) {
			return nil, fmt.Errorf("model=%s variant=%s: %w", c.Model, c.Variant.Name, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = fmt.Errorf("model=%s variant=%s: %w", c.Model, c.Variant.Name, err)
		uc.logger.Warn("Candidate failed, moving on",
			zap.String("model", c.Model),
			zap.String("variant", c.Variant.Name),
			zap.Int("remaining", candidates.Remaining()),
			zap.Error(err),
		)

		if candidates.Remaining() > 0 {
			if err := sleepContext(ctx, uc.cfg.RetryBackoff); err != nil {
				return nil, err
			}
		}
	}

	if req.Strict {
		if lastErr == nil {
			return nil, fmt.Errorf("%w: no models configured", repository.ErrCandidatesExhausted)
		}
		return nil, fmt.Errorf("%w after %d attempts: %w", repository.ErrCandidatesExhausted, candidates.Len(), lastErr)
	}

	uc.logger.Warn("All candidates failed, using local fallback page",
		zap.Int("attempts", candidates.Len()),
		zap.NamedError("last_error", lastErr),
	)
	return uc.fallback(req)
}

func (uc *orchestratorUseCase) attempt(
	ctx context.Context,
	req entity.GenerationRequest,
	c entity.Candidate,
	messages []entity.Message,
) (*entity.ValidatedPage, error) {
	start := time.Now()
	raw, err := uc.completion.Complete(ctx, entity.CompletionRequest{
		Model:    c.Model,
		Messages: messages,
		Params:   c.Variant.Params,
	})
	uc.metrics.CompletionDuration.WithLabelValues(c.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		uc.record(c, completionOutcome(err))
		return nil, err
	}

	doc, err := htmldoc.Extract(raw)
	if err != nil {
		uc.record(c, "extraction")
		return nil, err
	}
	if err := htmldoc.CheckSafety(doc.HTML); err != nil {
		uc.record(c, "unsafe")
		return nil, err
	}

	res, err := uc.oracle.Validate(ctx, doc.HTML)
	if err != nil {
		uc.record(c, "render")
		if errors.Is(err, repository.ErrEngineClosed) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", repository.ErrRenderRejected, err)
	}
	if !res.OK {
		uc.record(c, "render")
		return nil, fmt.Errorf("%w: %s", repository.ErrRenderRejected, res.Reason)
	}

	uc.record(c, "accepted")
	title, description := describe(doc, req)
	return &entity.ValidatedPage{
		HTML:        doc.HTML,
		Title:       title,
		Description: description,
		Seed:        req.Seed,
		Entropy:     req.Entropy,
		Mode:        doc.Mode,
		Model:       c.Model,
		Variant:     c.Variant.Name,
	}, nil
}

func (uc *orchestratorUseCase) fallback(req entity.GenerationRequest) (*entity.ValidatedPage, error) {
	html, err := RenderFallbackPage(req.Seed, req.Entropy)
	if err != nil {
		return nil, err
	}
	return &entity.ValidatedPage{
		HTML:        html,
		Title:       defaultTitle(req.Seed),
		Description: fallbackDescription,
		Seed:        req.Seed,
		Entropy:     req.Entropy,
		Mode:        entity.ModeFallback,
	}, nil
}

func (uc *orchestratorUseCase) record(c entity.Candidate, outcome string) {
	uc.metrics.CompletionAttempts.WithLabelValues(c.Model, c.Variant.Name, outcome).Inc()
}

func completionOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrAuthentication):
		return "auth"
	case errors.Is(err, repository.ErrUpstreamStatus):
		return "status"
	case errors.Is(err, repository.ErrMalformedResponse):
		return "malformed"
	default:
		return "transport"
	}
}

// describe prefers labels carried by a JSON wrapper, then the document's own
// title and meta description, then generic labels built from the request.
func describe(doc htmldoc.Document, req entity.GenerationRequest) (string, string) {
	title := htmldoc.CleanText(doc.Title)
	description := htmldoc.CleanText(doc.Description)
	if title == "" || description == "" {
		if meta, err := htmldoc.ReadMetadata(doc.HTML); err == nil {
			if title == "" {
				title = meta.Title
			}
			if description == "" {
				description = meta.Description
			}
		}
	}
	if title == "" {
		title = defaultTitle(req.Seed)
	}
	if description == "" {
		description = "Entropy mode " + req.Entropy.Fingerprint
	}
	return title, description
}

func defaultTitle(seed string) string {
	r := []rune(seed)
	if len(r) > maxTitleSeedRunes {
		r = r[:maxTitleSeedRunes]
	}
	return "Hallucination: " + string(r)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
