package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
)

// defaultSweepInterval is how often expired request keys are dropped
const defaultSweepInterval = 5 * time.Minute

// MemoryIdempotencyStore keeps request keys in process memory.
// Suitable for a single server instance and for tests.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryIdempotencyStore creates the store and starts its sweeper
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return newMemoryIdempotencyStore(defaultSweepInterval, time.Now)
}

func newMemoryIdempotencyStore(sweep time.Duration, now func() time.Time) *MemoryIdempotencyStore {
	s := &MemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		now:     now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.sweepLoop(sweep)
	return s
}

// MarkProcessed records key until ttl elapses.
// It returns false when an unexpired record already exists.
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether key holds an unexpired record
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[key]
	return ok && s.now().Before(exp), nil
}

// Forget drops key so the request can be retried
func (s *MemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, key)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

// Size returns the number of records, expired ones included until the next sweep
func (s *MemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

func (s *MemoryIdempotencyStore) sweepLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, key)
		}
	}
}

// Ensure MemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
