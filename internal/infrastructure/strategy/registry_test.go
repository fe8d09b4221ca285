package strategy

import (
	"sync"
	"testing"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/shared/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock ordering strategy for testing
type mockOrderingStrategy struct {
	strategy.BaseStrategy
}

func newMockOrderingStrategy(name string) *mockOrderingStrategy {
	return &mockOrderingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypeOrdering, "Mock ordering strategy"),
	}
}

func (s *mockOrderingStrategy) Order(c []strategy.Candidate) []strategy.Candidate {
	return c
}

func (s *mockOrderingStrategy) ConsidersExpiry() bool {
	return false
}

func TestStrategyRegistry_OrderingStrategies(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewStrategyRegistry()
		s := newMockOrderingStrategy("test")
		require.NoError(t, r.RegisterOrderingStrategy(s))

		got, err := r.GetOrderingStrategy("test")
		require.NoError(t, err)
		assert.Equal(t, "test", got.Name())
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterOrderingStrategy(newMockOrderingStrategy("dup")))
		err := r.RegisterOrderingStrategy(newMockOrderingStrategy("dup"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown and missing default", func(t *testing.T) {
		r := NewStrategyRegistry()
		_, err := r.GetOrderingStrategy("nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = r.GetOrderingStrategy("")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("default and fallback", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterOrderingStrategy(newMockOrderingStrategy("a")))
		require.NoError(t, r.RegisterOrderingStrategy(newMockOrderingStrategy("b")))
		require.NoError(t, r.SetDefault(strategy.StrategyTypeOrdering, "b"))

		assert.Equal(t, "b", r.GetDefault(strategy.StrategyTypeOrdering))
		assert.Equal(t, "b", r.GetOrderingStrategyOrDefault("missing").Name())
		assert.Equal(t, "a", r.GetOrderingStrategyOrDefault("a").Name())
		assert.Equal(t, []string{"a", "b"}, r.ListOrderingStrategies())
	})

	t.Run("set default requires registration", func(t *testing.T) {
		r := NewStrategyRegistry()
		err := r.SetDefault(strategy.StrategyTypeOrdering, "ghost")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.False(t, r.IsRegistered(strategy.StrategyTypeOrdering, "ghost"))
	})

	t.Run("unregister clears default", func(t *testing.T) {
		r := NewStrategyRegistry()
		require.NoError(t, r.RegisterOrderingStrategy(newMockOrderingStrategy("x")))
		require.NoError(t, r.SetDefault(strategy.StrategyTypeOrdering, "x"))
		require.NoError(t, r.UnregisterOrderingStrategy("x"))
		assert.Empty(t, r.GetDefault(strategy.StrategyTypeOrdering))
		assert.ErrorIs(t, r.UnregisterOrderingStrategy("x"), shared.ErrNotFound)
	})
}

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, []string{"fefo", "fifo"}, r.ListOrderingStrategies())
	assert.Equal(t, "fifo", r.GetDefault(strategy.StrategyTypeOrdering))
	assert.Equal(t, 2, r.Stats()[strategy.StrategyTypeOrdering])

	def, err := r.GetOrderingStrategy("")
	require.NoError(t, err)
	assert.Equal(t, "fifo", def.Name())
}

func TestStrategyRegistry_ConcurrentAccess(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrderingStrategy("fifo")
			_ = r.ListOrderingStrategies()
		}()
	}
	wg.Wait()
}
