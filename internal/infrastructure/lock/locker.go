// Package lock serialises invoice number allocation across server instances
// with Redis locks.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when the lock stayed taken for every retry
var ErrNotObtained = errors.New("lock not obtained")

// Locker hands out named mutual-exclusion locks. release must be called once
// the critical section ends.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// RedisLocker implements Locker with bsm/redislock
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a locker from the lock settings. The ttl bounds how
// long a crashed holder can block others.
func NewRedisLocker(client redis.UniversalClient, cfg config.LockConfig) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    cfg.TTL,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(cfg.RetryDelay), cfg.MaxRetries),
	}
}

// Obtain blocks until key is locked, the retries run out or ctx ends
func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(context.Context) error, error) {
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		// An expired lock was already released by Redis
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}, nil
}

var _ Locker = (*RedisLocker)(nil)
