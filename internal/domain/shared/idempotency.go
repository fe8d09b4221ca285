package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been applied, so a
// retried confirm or revert is rejected instead of being run twice.
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes a key, used when the guarded operation failed and may be retried
	Forget(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
