package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces request keys in a shared Redis
const DefaultKeyPrefix = "warehouse:request:"

// RedisIdempotencyStore keeps request keys in Redis so every server instance
// sees the same confirm and revert requests.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore connects to Redis and verifies the connection
func NewRedisIdempotencyStore(ctx context.Context, cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	return NewRedisIdempotencyStoreWithClient(client, DefaultKeyPrefix), nil
}

// NewRedisIdempotencyStoreWithClient wraps an existing client
func NewRedisIdempotencyStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// MarkProcessed records key with SETNX so concurrent retries race on one atomic command
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record request key: %w", err)
	}
	return ok, nil
}

// IsProcessed reports whether key is recorded
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up request key: %w", err)
	}
	return n > 0, nil
}

// Forget deletes key
func (s *RedisIdempotencyStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to forget request key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

// Ensure RedisIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
