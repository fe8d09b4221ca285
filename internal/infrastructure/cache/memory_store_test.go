package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	store := newMemoryIdempotencyStore(time.Hour, clock.Now)
	defer store.Close()

	t.Run("first mark wins", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "confirm:1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "confirm:1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		seen, err := store.IsProcessed(ctx, "confirm:1")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "confirm:2", time.Minute)
		require.NoError(t, err)
		clock.Advance(2 * time.Minute)

		seen, err := store.IsProcessed(ctx, "confirm:2")
		require.NoError(t, err)
		assert.False(t, seen)

		ok, err := store.MarkProcessed(ctx, "confirm:2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("forget allows a retry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "draft:1", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Forget(ctx, "draft:1"))

		ok, err := store.MarkProcessed(ctx, "draft:1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sweep drops expired keys", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "short", time.Second)
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
		store.sweep()
		assert.Zero(t, store.Size())
	})
}

func TestMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewMemoryIdempotencyStore()
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
