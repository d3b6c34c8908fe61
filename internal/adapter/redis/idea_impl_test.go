package redis

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdeaRepo(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	repo := NewIdeaRepo(client)
	repo.key = "test:" + t.Name()
	t.Cleanup(func() { client.Del(ctx, repo.key) })

	used, err := repo.HasBeenUsed(ctx, "idea")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.MarkUsed(ctx, "idea"))
	require.NoError(t, repo.MarkUsed(ctx, "idea"))

	used, err = repo.HasBeenUsed(ctx, "idea")
	require.NoError(t, err)
	assert.True(t, used)
	assert.Equal(t, int64(1), client.SCard(ctx, repo.key).Val())
}
