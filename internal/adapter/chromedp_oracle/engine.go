package chromedp_oracle

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/repository"
)

// Engine owns the single headless browser shared by all validations. The
// browser starts on Open (or on first use) and stays up until Close.
// Validations hold a read lock, so Close waits for any still in flight.
type Engine struct {
	mu          sync.RWMutex
	execPath    string
	logger      *zap.Logger
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	closed      bool
}

var _ repository.BrowserEngine = (*Engine)(nil)

// NewEngine prepares an engine. execPath may be empty to let chromedp find
// Chrome on its own.
func NewEngine(execPath string, logger *zap.Logger) *Engine {
	return &Engine{execPath: execPath, logger: logger}
}

func (e *Engine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Pages run offline: every host lookup fails.
		chromedp.Flag("host-resolver-rules", "MAP * ~NOTFOUND"),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	return opts
}

// Open starts the browser if it is not running yet.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openLocked(ctx)
}

func (e *Engine) openLocked(ctx context.Context) error {
	if e.closed {
		return repository.ErrEngineClosed
	}
	if e.browserCtx != nil {
		return nil
	}

	// The browser outlives ctx; ctx only bounds the startup.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), e.allocatorOptions()...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, cancel)
	err := chromedp.Run(browserCtx)
	stop()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	e.allocCancel = allocCancel
	e.browserCtx = browserCtx
	e.cancel = cancel
	e.logger.Info("Browser engine started")
	return nil
}

// acquire returns the browser context under a read lock. The caller must
// invoke release when done with it.
func (e *Engine) acquire(ctx context.Context) (context.Context, func(), error) {
	e.mu.RLock()
	if e.browserCtx == nil && !e.closed {
		e.mu.RUnlock()
		if err := e.Open(ctx); err != nil {
			return nil, nil, err
		}
		e.mu.RLock()
	}
	if e.closed {
		e.mu.RUnlock()
		return nil, nil, repository.ErrEngineClosed
	}
	return e.browserCtx, e.mu.RUnlock, nil
}

// Close shuts the browser down after in-flight validations finish. It is safe
// to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(e.browserCtx)
	e.cancel()
	e.allocCancel()
	e.browserCtx = nil
	e.logger.Info("Browser engine stopped")
	if err != nil {
		return fmt.Errorf("failed to stop browser: %w", err)
	}
	return nil
}
