package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/user/hallucination-cache/internal/repository"
)

const usedIdeasKey = "hallucination:ideas:used"

// IdeaRepoImpl keeps used idea IDs in a Redis set shared by every generator
// process.
type IdeaRepoImpl struct {
	client *redis.Client
	key    string
}

var _ repository.IdeaRepository = (*IdeaRepoImpl)(nil)

func NewIdeaRepo(client *redis.Client) *IdeaRepoImpl {
	return &IdeaRepoImpl{client: client, key: usedIdeasKey}
}

// HasBeenUsed checks set membership with SISMEMBER.
func (r *IdeaRepoImpl) HasBeenUsed(ctx context.Context, id string) (bool, error) {
	return r.client.SIsMember(ctx, r.key, id).Result()
}

// MarkUsed adds the ID with SADD, which is idempotent.
func (r *IdeaRepoImpl) MarkUsed(ctx context.Context, id string) error {
	return r.client.SAdd(ctx, r.key, id).Err()
}
