package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check done when a client is created
const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection. The caller
// owns the client and must close it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
