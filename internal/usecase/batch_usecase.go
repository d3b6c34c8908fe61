package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/prompt"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/metrics"
)

const (
	DefaultMinJitter    = 180 * time.Millisecond
	DefaultMaxJitter    = 1000 * time.Millisecond
	DefaultLoopInterval = 4 * time.Second
)

// BatchConfig controls how many pages are produced and how fast.
type BatchConfig struct {
	Count       int
	Concurrency int
	Chaos       float64
	Strict      bool

	Loop       bool
	TargetSize int
	BatchSize  int
	Interval   time.Duration

	// Pause after each page, drawn uniformly from [MinJitter, MaxJitter].
	MinJitter time.Duration
	MaxJitter time.Duration
}

// BatchResult summarizes one batch.
type BatchResult struct {
	Saved   int
	Skipped int
}

// BatchRunner drives compose, generate and assemble for many pages at once.
type BatchRunner struct {
	composer     *prompt.Composer
	orchestrator Orchestrator
	assembler    Assembler
	pages        repository.PageRepository
	engine       repository.BrowserEngine
	cfg          BatchConfig
	rng          prompt.Rand
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewBatchRunner(
	composer *prompt.Composer,
	orchestrator Orchestrator,
	assembler Assembler,
	pages repository.PageRepository,
	engine repository.BrowserEngine,
	cfg BatchConfig,
	rng prompt.Rand,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BatchRunner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultLoopInterval
	}
	if cfg.MaxJitter < cfg.MinJitter {
		cfg.MaxJitter = cfg.MinJitter
	}
	return &BatchRunner{
		composer:     composer,
		orchestrator: orchestrator,
		assembler:    assembler,
		pages:        pages,
		engine:       engine,
		cfg:          cfg,
		rng:          prompt.Locked(rng),
		metrics:      m,
		logger:       logger,
	}
}

// Run opens the browser engine, produces one batch or loops until ctx is
// done, and closes the engine on the way out.
func (r *BatchRunner) Run(ctx context.Context) error {
	if err := r.engine.Open(ctx); err != nil {
		return fmt.Errorf("failed to open browser engine: %w", err)
	}
	defer func() {
		if err := r.engine.Close(); err != nil {
			r.logger.Warn("Failed to close browser engine", zap.Error(err))
		}
	}()

	if r.cfg.Loop {
		return r.RunLoop(ctx)
	}
	res, err := r.RunBatch(ctx, r.cfg.Count)
	r.logger.Info("Batch finished", zap.Int("saved", res.Saved), zap.Int("skipped", res.Skipped))
	return err
}

// RunLoop tops the store up to TargetSize every Interval. It returns nil
// when ctx is cancelled and an error for anything that stops a batch.
func (r *BatchRunner) RunLoop(ctx context.Context) error {
	r.logger.Info("Loop mode started",
		zap.Int("target_size", r.cfg.TargetSize),
		zap.Int("batch_size", r.cfg.BatchSize),
		zap.Duration("interval", r.cfg.Interval),
	)
	for {
		n, err := r.pages.Count(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to count pages: %w", err)
		}
		r.metrics.PagesStored.Set(float64(n))

		if n < r.cfg.TargetSize {
			size := min(r.cfg.BatchSize, r.cfg.TargetSize-n)
			r.logger.Info("Cache below target, generating", zap.Int("stored", n), zap.Int("batch", size))
			res, err := r.RunBatch(ctx, size)
			r.logger.Info("Batch finished", zap.Int("saved", res.Saved), zap.Int("skipped", res.Skipped))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		} else {
			r.logger.Debug("Cache at target", zap.Int("stored", n))
		}

		if err := sleepContext(ctx, r.cfg.Interval); err != nil {
			return nil
		}
	}
}

// RunBatch produces count pages with up to Concurrency workers. Strict
// exhaustion skips a page; authentication, persistence and cancellation
// errors stop the whole batch.
func (r *BatchRunner) RunBatch(ctx context.Context, count int) (BatchResult, error) {
	if count <= 0 {
		return BatchResult{}, nil
	}

	var (
		next    atomic.Int64
		saved   atomic.Int64
		skipped atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < min(r.cfg.Concurrency, count); w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1))
				if i > count {
					return nil
				}
				ok, err := r.produce(gctx, i, count)
				if err != nil {
					return err
				}
				if ok {
					saved.Add(1)
				} else {
					skipped.Add(1)
				}
				if err := sleepContext(gctx, r.jitter()); err != nil {
					return err
				}
			}
		})
	}
	err := g.Wait()
	return BatchResult{Saved: int(saved.Load()), Skipped: int(skipped.Load())}, err
}

// produce makes one page. It reports false when the page was skipped.
func (r *BatchRunner) produce(ctx context.Context, index, total int) (bool, error) {
	seed, err := r.composer.ComposeFresh(ctx, r.cfg.Chaos)
	if err != nil {
		return false, fmt.Errorf("failed to compose seed: %w", err)
	}
	req := entity.NewGenerationRequest(seed, prompt.NewEntropyCapsule(r.cfg.Chaos, r.rng), r.cfg.Strict)

	r.logger.Info("Generating page",
		zap.Int("index", index),
		zap.Int("total", total),
		zap.String("seed", seed),
		zap.String("fingerprint", req.Entropy.Fingerprint),
	)

	page, err := r.orchestrator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrCandidatesExhausted) {
			r.metrics.PageFailures.WithLabelValues("exhausted").Inc()
			r.logger.Error("Skipping page, every candidate failed", zap.String("seed", seed), zap.Error(err))
			return false, nil
		}
		if errors.Is(err, repository.ErrAuthentication) {
			r.metrics.PageFailures.WithLabelValues("auth").Inc()
		}
		return false, err
	}

	stored, err := r.assembler.Assemble(ctx, page)
	if err != nil {
		r.metrics.PageFailures.WithLabelValues("persist").Inc()
		return false, err
	}
	if err := r.composer.MarkUsed(ctx, seed); err != nil {
		return false, fmt.Errorf("failed to record idea: %w", err)
	}

	r.logger.Info("Saved page",
		zap.String("id", stored.ID),
		zap.String("mode", string(stored.Mode)),
		zap.String("model", stored.Model),
		zap.String("title", stored.Title),
	)
	return true, nil
}

func (r *BatchRunner) jitter() time.Duration {
	span := r.cfg.MaxJitter - r.cfg.MinJitter
	if span <= 0 {
		return r.cfg.MinJitter
	}
	return r.cfg.MinJitter + time.Duration(r.rng.IntN(int(span)+1))
}
