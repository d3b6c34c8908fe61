// Package bootstrap turns configuration into concrete repositories.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/adapter/filestore"
	"github.com/user/hallucination-cache/internal/adapter/memory"
	"github.com/user/hallucination-cache/internal/adapter/postgres"
	redis_adapter "github.com/user/hallucination-cache/internal/adapter/redis"
	"github.com/user/hallucination-cache/internal/repository"
	"github.com/user/hallucination-cache/pkg/config"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

// Watcher is implemented by page stores that can follow external changes.
type Watcher interface {
	Watch(ctx context.Context) error
}

// Stores bundles the repositories a process needs and the connections behind them.
type Stores struct {
	Pages repository.PageRepository
	Ideas repository.IdeaRepository
	// Watcher is non-nil when Pages can follow changes made by other processes.
	Watcher Watcher

	closers []func()
}

// Close releases every connection opened by Open, in reverse order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Open builds the page and idea repositories selected by cfg.
// withIdeas is false for processes that only read pages.
func Open(ctx context.Context, cfg *config.Config, withIdeas bool, logger *zap.Logger) (*Stores, error) {
	s := &Stores{}
	if err := s.openPages(ctx, cfg, logger); err != nil {
		s.Close()
		return nil, err
	}
	if withIdeas {
		if err := s.openIdeas(ctx, cfg, logger); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Stores) openPages(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	switch cfg.StoreBackend {
	case BackendFile, "":
		store, err := filestore.NewPageStore(cfg.CacheDir, logger)
		if err != nil {
			return err
		}
		s.Pages = store
		s.Watcher = store
		logger.Info("Using file page store", zap.String("dir", cfg.CacheDir))
		return nil

	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires POSTGRES_URL")
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("unable to create postgres pool: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("unable to connect to postgres: %w", err)
		}
		repo := postgres.NewPageRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		s.Pages = repo
		logger.Info("PostgreSQL connection pool established")
		return nil

	case BackendMemory:
		s.Pages = memory.NewPageRepository()
		logger.Warn("Using in-memory page store; pages are lost on exit")
		return nil
	}
	return fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

func (s *Stores) openIdeas(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	switch cfg.IdeaStore {
	case BackendMemory:
		s.Ideas = memory.NewIdeaRepository()
		return nil

	case BackendFile, "":
		store, err := filestore.NewIdeaStore(cfg.IdeasPath)
		if err != nil {
			return err
		}
		s.Ideas = store
		logger.Info("Using file idea store", zap.String("path", cfg.IdeasPath))
		return nil

	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		s.Ideas = redis_adapter.NewIdeaRepo(rdb)
		logger.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
		return nil
	}
	return fmt.Errorf("unknown IDEA_STORE %q", cfg.IdeaStore)
}
