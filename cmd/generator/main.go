package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/adapter/chromedp_oracle"
	"github.com/user/hallucination-cache/internal/adapter/openrouter"
	"github.com/user/hallucination-cache/internal/bootstrap"
	"github.com/user/hallucination-cache/internal/prompt"
	"github.com/user/hallucination-cache/internal/usecase"
	"github.com/user/hallucination-cache/pkg/config"
	"github.com/user/hallucination-cache/pkg/logger"
	"github.com/user/hallucination-cache/pkg/metrics"
	"github.com/user/hallucination-cache/pkg/utils"
)

const (
	handcraftMinText       = 50
	handcraftRenderTimeout = 8000
)

type options struct {
	envFile     string
	metricsAddr string

	count       int
	loop        bool
	targetSize  int
	batchSize   int
	concurrency int
	intervalMS  int
	chaos       float64
	strict      bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generator",
		Short: "Generate and cache validated hallucinated web pages",
		Long: `generator asks a language model for complete fictional HTML pages,
checks each one in a headless browser and stores the pages that render.

By default it produces --count pages and exits. With --loop it keeps the
cache topped up to --target-size until interrupted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, nil)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.envFile, "env-file", ".env", "Optional env file read before the environment")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	f.IntVar(&opts.count, "count", 0, "Number of pages to generate (overrides COUNT)")
	f.BoolVar(&opts.loop, "loop", false, "Keep the cache at --target-size until interrupted (overrides LOOP)")
	f.IntVar(&opts.targetSize, "target-size", 0, "Number of pages to keep cached in loop mode (overrides TARGET_SIZE)")
	f.IntVar(&opts.batchSize, "batch-size", 0, "Pages per loop iteration (overrides BATCH_SIZE)")
	f.IntVar(&opts.concurrency, "concurrency", 0, "Pages generated in parallel (overrides CONCURRENCY)")
	f.IntVar(&opts.intervalMS, "interval-ms", 0, "Pause between loop iterations in milliseconds (overrides INTERVAL_MS)")
	f.Float64Var(&opts.chaos, "chaos", 0, "Chaos level in [0, 1] (overrides CHAOS_LEVEL)")
	f.BoolVar(&opts.strict, "strict", false, "Skip pages instead of storing the local fallback (overrides OPENROUTER_STRICT)")

	cmd.AddCommand(handcraftCmd(opts))
	return cmd
}

func handcraftCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "handcraft",
		Short: "Generate pages one at a time under stricter render checks",
		Long: `handcraft runs the generator sequentially in strict mode. Pages must show
at least 50 characters of text and get 8 seconds to render.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, applyHandcraft)
		},
	}
}

func applyHandcraft(cfg *config.Config) {
	cfg.Strict = true
	cfg.Concurrency = 1
	cfg.RenderMinText = handcraftMinText
	cfg.RenderTimeoutMS = handcraftRenderTimeout
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("count") {
		cfg.Count = max(opts.count, 0)
	}
	if f.Changed("loop") {
		cfg.Loop = opts.loop
	}
	if f.Changed("target-size") {
		cfg.TargetSize = opts.targetSize
	}
	if f.Changed("batch-size") {
		cfg.BatchSize = max(opts.batchSize, 1)
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = max(opts.concurrency, 1)
	}
	if f.Changed("interval-ms") {
		cfg.IntervalMS = max(opts.intervalMS, config.MinIntervalMS)
	}
	if f.Changed("chaos") {
		cfg.Chaos = utils.Clamp01(opts.chaos)
	}
	if f.Changed("strict") {
		cfg.Strict = opts.strict
	}
}

func run(cmd *cobra.Command, opts *options, preset func(*config.Config)) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	applyFlags(cmd, opts, cfg)
	if preset != nil {
		preset(cfg)
	}
	if cfg.OpenRouterAPIKey == "" {
		return errors.New("OPENROUTER_API_KEY is not set")
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	stores, err := bootstrap.Open(ctx, cfg, true, log)
	if err != nil {
		return err
	}
	defer stores.Close()
	if stores.Watcher != nil && cfg.Loop {
		go func() {
			if err := stores.Watcher.Watch(ctx); err != nil {
				log.Warn("Page directory watch stopped", zap.Error(err))
			}
		}()
	}

	engine := chromedp_oracle.NewEngine(cfg.ChromePath, log)
	oracle := chromedp_oracle.NewOracle(engine, chromedp_oracle.Options{
		Timeout: cfg.RenderTimeout(),
		Criteria: chromedp_oracle.Criteria{
			MinVisibleChars: cfg.RenderMinText,
			FatalPatterns:   cfg.FatalPatterns(),
		},
	}, m, log)

	client := openrouter.NewClient(openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		SiteURL: cfg.SiteURL,
		AppName: cfg.AppName,
		Timeout: cfg.RequestTimeout(),
	})

	orchestrator := usecase.NewOrchestrator(client, oracle, usecase.OrchestratorConfig{
		Models:       cfg.Models(),
		RetryBackoff: cfg.RetryBackoff(),
	}, prompt.DefaultRand, m, log)

	runner := usecase.NewBatchRunner(
		prompt.NewComposer(stores.Ideas, prompt.DefaultRand),
		orchestrator,
		usecase.NewAssembler(stores.Pages, m),
		stores.Pages,
		engine,
		usecase.BatchConfig{
			Count:       cfg.Count,
			Concurrency: cfg.Concurrency,
			Chaos:       cfg.Chaos,
			Strict:      cfg.Strict,
			Loop:        cfg.Loop,
			TargetSize:  cfg.TargetSize,
			BatchSize:   cfg.BatchSize,
			Interval:    cfg.Interval(),
			MinJitter:   usecase.DefaultMinJitter,
			MaxJitter:   usecase.DefaultMaxJitter,
		},
		prompt.DefaultRand, m, log,
	)

	log.Info("Generator starting",
		zap.Strings("models", cfg.Models()),
		zap.Float64("chaos", cfg.Chaos),
		zap.Bool("strict", cfg.Strict),
		zap.Bool("loop", cfg.Loop),
		zap.Int("concurrency", cfg.Concurrency),
	)
	if err := runner.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Info("Generator interrupted")
			return nil
		}
		return err
	}
	log.Info("Generator exiting")
	return nil
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()
	log.Info("Serving metrics", zap.String("addr", addr))
	return srv
}
