package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	memberserrors "concierge/internal/members/errors"
	redisdb "concierge/pkg/db/redis"
	"concierge/pkg/model"

	"github.com/redis/go-redis/v9"
)

const pendingKeyPrefix = "members:pending:"

// PendingStore holds two-phase registrations until the payment provider
// confirms them. Entries expire with their TTL.
type PendingStore interface {
	Save(ctx context.Context, pending *model.PendingRegistration) error
	Get(ctx context.Context, id string) (*model.PendingRegistration, error)
	// Take reads and removes the entry so a confirmation is processed once.
	Take(ctx context.Context, id string) (*model.PendingRegistration, error)
}

type redisPendingStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewPendingStore(rdb redis.Cmdable) PendingStore {
	return &redisPendingStore{rdb: rdb, now: time.Now}
}

func (s *redisPendingStore) Save(ctx context.Context, pending *model.PendingRegistration) error {
	ttl := pending.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", memberserrors.ErrPendingNotFound, pending.ID)
	}
	if err := redisdb.SetJSON(ctx, s.rdb, pendingKey(pending.ID), pending, ttl); err != nil {
		return fmt.Errorf("failed to save pending registration: %w", err)
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, id string) (*model.PendingRegistration, error) {
	var pending model.PendingRegistration
	if err := redisdb.GetJSON(ctx, s.rdb, pendingKey(id), &pending); err != nil {
		return nil, s.mapError(err, id)
	}
	return &pending, nil
}

func (s *redisPendingStore) Take(ctx context.Context, id string) (*model.PendingRegistration, error) {
	var pending model.PendingRegistration
	if err := redisdb.TakeJSON(ctx, s.rdb, pendingKey(id), &pending); err != nil {
		return nil, s.mapError(err, id)
	}
	return &pending, nil
}

func (s *redisPendingStore) mapError(err error, id string) error {
	if errors.Is(err, redisdb.ErrMiss) {
		return fmt.Errorf("%w: %s", memberserrors.ErrPendingNotFound, id)
	}
	return fmt.Errorf("failed to read pending registration: %w", err)
}

func pendingKey(id string) string {
	return pendingKeyPrefix + id
}
