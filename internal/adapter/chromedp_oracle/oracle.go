package chromedp_oracle

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/metrics"
)

const DefaultTimeout = 5 * time.Second

const bodyTextJS = `document.body ? document.body.innerText.trim() : ""`

// Options configure the render oracle.
type Options struct {
	Timeout  time.Duration
	Criteria Criteria
}

// Oracle loads documents in the shared browser engine and judges them.
type Oracle struct {
	engine  *Engine
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
}

var _ repository.RenderOracle = (*Oracle)(nil)

// NewOracle creates a render oracle. Zero option values and a non-positive
// visible-text minimum fall back to the defaults.
func NewOracle(engine *Engine, opts Options, m *metrics.Metrics, logger *zap.Logger) *Oracle {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Criteria.MinVisibleChars <= 0 {
		opts.Criteria.MinVisibleChars = DefaultMinVisibleChars
	}
	if opts.Criteria.FatalPatterns == nil {
		opts.Criteria.FatalPatterns = DefaultFatalPatterns
	}
	return &Oracle{engine: engine, opts: opts, metrics: m, logger: logger}
}

// Validate renders html from a temporary file in a fresh browser context.
// A rejected document yields a result with OK false; an error means no
// verdict could be reached.
func (o *Oracle) Validate(ctx context.Context, html string) (*entity.RenderResult, error) {
	start := time.Now()
	defer func() { o.metrics.RenderDuration.Observe(time.Since(start).Seconds()) }()

	path, err := writeTemp(html)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	browserCtx, release, err := o.engine.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	tabCtx, cancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		mu   sync.Mutex
		errs []string
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*runtime.EventExceptionThrown); ok {
			mu.Lock()
			errs = append(errs, exceptionMessage(e.ExceptionDetails))
			mu.Unlock()
		}
	})

	runCtx, cancelRun := context.WithTimeout(tabCtx, o.opts.Timeout)
	defer cancelRun()

	var text string
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+path),
		chromedp.Evaluate(bodyTextJS, &text),
	)
	if err != nil {
		o.metrics.RenderRejections.WithLabelValues("engine").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("render failed: %w", err)
	}

	mu.Lock()
	observed := append([]string(nil), errs...)
	mu.Unlock()

	res := Evaluate(text, observed, o.opts.Criteria)
	if !res.OK {
		o.metrics.RenderRejections.WithLabelValues(rejectionLabel(res)).Inc()
		o.logger.Debug("Render rejected", zap.String("reason", res.Reason), zap.Int("text_length", res.TextLength))
	}
	return res, nil
}

func writeTemp(html string) (string, error) {
	f, err := os.CreateTemp("", "hallucination-check-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

func exceptionMessage(d *runtime.ExceptionDetails) string {
	if d == nil {
		return ""
	}
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return strings.TrimSpace(d.Text)
}
