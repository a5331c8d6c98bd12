package cache

import (
	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BalanceCacheFactory picks the ledger cache implementation from configuration
type BalanceCacheFactory struct {
	cacheConfig config.CacheConfig
	logger      *zap.Logger
}

// BalanceCacheFactoryOption is a functional option for configuring the factory
type BalanceCacheFactoryOption func(*BalanceCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) BalanceCacheFactoryOption {
	return func(f *BalanceCacheFactory) {
		f.logger = logger
	}
}

// NewBalanceCacheFactory creates a new factory
func NewBalanceCacheFactory(cfg config.CacheConfig, opts ...BalanceCacheFactoryOption) *BalanceCacheFactory {
	f := &BalanceCacheFactory{
		cacheConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when a client is available, an in-memory
// cache otherwise, and a no-op cache when caching is disabled.
// In-memory caches are not shared between instances: a deposit recorded on
// one instance leaves stale ledgers on the others until the TTL expires.
func (f *BalanceCacheFactory) Create(client redis.UniversalClient) ledger.Cache {
	if !f.cacheConfig.Enabled {
		f.logger.Info("ledger cache disabled")
		return NoopBalanceCache{}
	}
	if client != nil {
		f.logger.Info("using Redis ledger cache", zap.Duration("ttl", f.cacheConfig.BalanceTTL))
		return NewRedisBalanceCache(client, f.cacheConfig.BalanceTTL, WithCacheLogger(f.logger))
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory ledger cache. " +
		"Cached balances may be stale across instances until they expire.")
	return NewInMemoryBalanceCache(f.cacheConfig.BalanceTTL)
}
