package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/bootstrap"
	"github.com/user/hallucination-cache/internal/delivery/http/handler"
	"github.com/user/hallucination-cache/internal/delivery/http/router"
	"github.com/user/hallucination-cache/internal/usecase"
	"github.com/user/hallucination-cache/pkg/config"
	"github.com/user/hallucination-cache/pkg/logger"
	"github.com/user/hallucination-cache/pkg/metrics"
)

func main() {
	envFile := flag.String("env-file", ".env", "Optional env file read before the environment")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Storage ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.Open(ctx, cfg, false, log)
	if err != nil {
		log.Fatal("could not open page store", zap.Error(err))
	}
	defer stores.Close()

	if stores.Watcher != nil {
		go func() {
			if err := stores.Watcher.Watch(ctx); err != nil {
				log.Warn("Page directory watch stopped", zap.Error(err))
			}
		}()
	}

	// --- HTTP Server ---
	catalog := usecase.NewCatalog(stores.Pages, m)
	apiHandler := handler.NewHandler(catalog, log)
	httpRouter := router.New(apiHandler, m, prometheus.DefaultGatherer, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
