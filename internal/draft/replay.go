package draft

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReplayGuard remembers drafts that already produced a booking.
type ReplayGuard interface {
	IsUsed(ctx context.Context, id string) (bool, error)
	MarkUsed(ctx context.Context, id string, ttl time.Duration) error
}

const usedPrefix = "draft:used:"

type RedisReplayGuard struct {
	rdb *redis.Client
}

func NewRedisReplayGuard(rdb *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{rdb: rdb}
}

func (g *RedisReplayGuard) IsUsed(ctx context.Context, id string) (bool, error) {
	n, err := g.rdb.Exists(ctx, usedPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *RedisReplayGuard) MarkUsed(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return g.rdb.SetNX(ctx, usedPrefix+id, "1", ttl).Err()
}
