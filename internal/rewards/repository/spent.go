package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const spentKeyPrefix = "rewards:spent:"

// SpentRepository stores the only persisted rewards number: the cumulative
// points an identity has redeemed.
type SpentRepository interface {
	Get(ctx context.Context, identityID string) (int, error)
	Add(ctx context.Context, identityID string, points int) (int, error)
}

type redisSpentRepository struct {
	rdb redis.Cmdable
}

func NewSpentRepository(rdb redis.Cmdable) SpentRepository {
	return &redisSpentRepository{rdb: rdb}
}

func (r *redisSpentRepository) Get(ctx context.Context, identityID string) (int, error) {
	spent, err := r.rdb.Get(ctx, spentKey(identityID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read spent points: %w", err)
	}
	return spent, nil
}

func (r *redisSpentRepository) Add(ctx context.Context, identityID string, points int) (int, error) {
	spent, err := r.rdb.IncrBy(ctx, spentKey(identityID), int64(points)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record spent points: %w", err)
	}
	return int(spent), nil
}

func spentKey(identityID string) string {
	return spentKeyPrefix + identityID
}
