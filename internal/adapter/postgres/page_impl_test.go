package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

func newTestRepo(t *testing.T) *PageRepoImpl {
	t.Helper()
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewPageRepo(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE pages`)
	require.NoError(t, err)
	return repo
}

func TestPageRepo_SaveListCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		id := uuid.Must(uuid.NewV7()).String()
		ids = append(ids, id)
		page := &entity.StoredPage{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			ValidatedPage: entity.ValidatedPage{
				HTML:    "<!doctype html><html></html>",
				Title:   "t",
				Seed:    "seed",
				Mode:    entity.ModeExtracted,
				Model:   "m",
				Variant: "safe",
				Entropy: entity.EntropyCapsule{Fingerprint: "fp", Laws: []string{"x"}},
			},
		}
		require.NoError(t, repo.Save(ctx, page))
	}

	err := repo.Save(ctx, &entity.StoredPage{ID: ids[0], CreatedAt: base})
	assert.ErrorIs(t, err, repository.ErrPageExists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	pages, err := repo.List(ctx, entity.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, ids[2], pages[0].ID)
	assert.Equal(t, ids[1], pages[1].ID)
	assert.Equal(t, entity.ModeExtracted, pages[0].Mode)
	assert.Equal(t, "fp", pages[0].Entropy.Fingerprint)
}
