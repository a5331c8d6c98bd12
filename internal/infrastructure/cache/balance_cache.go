package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultScanBatchSize = 100
	balanceKeyPrefix     = "balance:"
)

// RedisBalanceCache implements ledger.Cache on Redis. Keys have the form
// balance:{user}:{buyer key}.
type RedisBalanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// RedisBalanceCacheOption is a functional option for configuring the cache
type RedisBalanceCacheOption func(*RedisBalanceCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		c.logger = logger
	}
}

// NewRedisBalanceCache creates a cache on an existing client. The caller
// keeps ownership of the client.
func NewRedisBalanceCache(client redis.UniversalClient, ttl time.Duration, opts ...RedisBalanceCacheOption) *RedisBalanceCache {
	c := &RedisBalanceCache{
		client: client,
		ttl:    ttl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func balanceKey(userID uuid.UUID, key string) string {
	return balanceKeyPrefix + userID.String() + ":" + key
}

func balanceUserPattern(userID uuid.UUID) string {
	return balanceKeyPrefix + userID.String() + ":*"
}

// GetLedger loads a cached ledger
func (c *RedisBalanceCache) GetLedger(ctx context.Context, userID uuid.UUID, key string) (*ledger.Ledger, error) {
	cacheKey := balanceKey(userID, key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss for ledger", zap.String("key", cacheKey))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger from cache: %w", err)
	}

	var l ledger.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		// Drop the corrupted entry so the next read rebuilds it
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal ledger: %w", err)
	}
	return &l, nil
}

// SetLedger stores a ledger with the configured TTL
func (c *RedisBalanceCache) SetLedger(ctx context.Context, userID uuid.UUID, key string, l *ledger.Ledger) error {
	if l == nil {
		return nil
	}

	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := c.client.Set(ctx, balanceKey(userID, key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set ledger in cache: %w", err)
	}
	return nil
}

// InvalidateUser removes every ledger of the user with SCAN + DEL
func (c *RedisBalanceCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	var (
		cursor  uint64
		deleted int64
	)
	pattern := balanceUserPattern(userID)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated ledger cache",
		zap.String("user_id", userID.String()),
		zap.Int64("deleted_count", deleted))
	return nil
}

var _ ledger.Cache = (*RedisBalanceCache)(nil)
