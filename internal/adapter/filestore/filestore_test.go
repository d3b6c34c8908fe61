package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

func testPage(id string, at time.Time) *entity.StoredPage {
	return &entity.StoredPage{
		ID:        id,
		CreatedAt: at,
		ValidatedPage: entity.ValidatedPage{
			HTML:  "<!doctype html><html><body>" + id + "</body></html>",
			Title: "Page " + id,
			Seed:  "a goose bank",
			Mode:  entity.ModeDirect,
			Entropy: entity.EntropyCapsule{
				Chaos:       0.5,
				Fingerprint: "abc",
				Laws:        []string{"law"},
			},
		},
	}
}

func TestPageStore_SaveListCount(t *testing.T) {
	ctx := context.Background()
	store, err := NewPageStore(filepath.Join(t.TempDir(), "pages"), zap.NewNop())
	require.NoError(t, err)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testPage("first", base)))
	require.NoError(t, store.Save(ctx, testPage("second", base.Add(time.Second))))
	require.NoError(t, store.Save(ctx, testPage("third", base.Add(2*time.Second))))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	pages, err := store.List(ctx, entity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{pages[0].ID, pages[1].ID, pages[2].ID})
	assert.Equal(t, "Page third", pages[0].Title)
	assert.Equal(t, entity.ModeDirect, pages[0].Mode)
	assert.Equal(t, []string{"law"}, pages[0].Entropy.Laws)
	assert.True(t, pages[2].CreatedAt.Equal(base))

	limited, err := store.List(ctx, entity.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "third", limited[0].ID)
}

func TestPageStore_RefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewPageStore(dir, zap.NewNop())
	require.NoError(t, err)

	original := testPage("same", time.Now().UTC())
	require.NoError(t, store.Save(ctx, original))

	replacement := testPage("same", time.Now().UTC())
	replacement.Title = "replaced"
	err = store.Save(ctx, replacement)
	assert.ErrorIs(t, err, repository.ErrPageExists)

	pages, err := store.List(ctx, entity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Page same", pages[0].Title)

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	assert.Empty(t, leftovers)
}

func TestPageStore_RejectsBadIDs(t *testing.T) {
	store, err := NewPageStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", ".hidden", `a\b`} {
		assert.Error(t, store.Save(context.Background(), testPage(id, time.Now())), id)
	}
}

func TestPageStore_SkipsForeignAndCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewPageStore(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, testPage("good", time.Now().UTC())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	pages, err := store.List(ctx, entity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "good", pages[0].ID)
}

func TestPageStore_ListPicksUpRemovals(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewPageStore(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, testPage("a", time.Now().UTC())))
	require.NoError(t, store.Save(ctx, testPage("b", time.Now().UTC())))
	_, err = store.List(ctx, entity.ListOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.json")))
	pages, err := store.List(ctx, entity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "b", pages[0].ID)
}

func TestPageStore_WatchInvalidatesCount(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPageStore(dir, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	require.Eventually(t, store.watching.Load, time.Second, 10*time.Millisecond)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// A page dropped in by another process.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "external.json"), []byte(`{"id":"external"}`), 0o644))
	assert.Eventually(t, func() bool {
		n, err := store.Count(ctx)
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestIdeaStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "used-ideas.json")

	store, err := NewIdeaStore(path)
	require.NoError(t, err)
	used, err := store.HasBeenUsed(ctx, "idea-1")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, store.MarkUsed(ctx, "idea-1"))
	require.NoError(t, store.MarkUsed(ctx, "idea-1"))

	reopened, err := NewIdeaStore(path)
	require.NoError(t, err)
	used, err = reopened.HasBeenUsed(ctx, "idea-1")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestIdeaStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used-ideas.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewIdeaStore(path)
	assert.Error(t, err)
}
