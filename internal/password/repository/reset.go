package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	passworderrors "concierge/internal/password/errors"
	redisdb "concierge/pkg/db/redis"
	"concierge/pkg/model"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "password:reset:"

// ResetStore keeps one-time reset tokens. Entries expire with their TTL and
// are removed when taken.
type ResetStore interface {
	Save(ctx context.Context, token string, reset *model.PasswordReset, ttl time.Duration) error
	Take(ctx context.Context, token string) (*model.PasswordReset, error)
}

type redisResetStore struct {
	rdb redis.Cmdable
}

func NewResetStore(rdb redis.Cmdable) ResetStore {
	return &redisResetStore{rdb: rdb}
}

func (s *redisResetStore) Save(ctx context.Context, token string, reset *model.PasswordReset, ttl time.Duration) error {
	if err := redisdb.SetJSON(ctx, s.rdb, resetKeyPrefix+token, reset, ttl); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

func (s *redisResetStore) Take(ctx context.Context, token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := redisdb.TakeJSON(ctx, s.rdb, resetKeyPrefix+token, &reset); err != nil {
		if errors.Is(err, redisdb.ErrMiss) {
			return nil, passworderrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read reset token: %w", err)
	}
	return &reset, nil
}
