package cache

import (
	"context"
	"fmt"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Idempotency backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// IdempotencyStoreFactory builds the request-key store the configuration asks for
type IdempotencyStoreFactory struct {
	redis         config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption configures an IdempotencyStoreFactory
type FactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether an unreachable Redis degrades to the memory store
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a factory; fallback to memory is on by default
func NewIdempotencyStoreFactory(redisCfg config.RedisConfig, opts ...FactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redis:         redisCfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a store for backend
func (f *IdempotencyStoreFactory) Create(ctx context.Context, backend string) (shared.IdempotencyStore, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryIdempotencyStore(), nil
	case BackendRedis:
		store, err := NewRedisIdempotencyStore(ctx, f.redis)
		if err == nil {
			f.logger.Info("using Redis idempotency store", zap.String("addr", f.redis.Addr()))
			return store, nil
		}
		if !f.allowFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", f.redis.Addr()),
			zap.Error(err),
		)
		return NewMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", backend)
	}
}
