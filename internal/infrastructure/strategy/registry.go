package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations
type StrategyRegistry struct {
	mu                 sync.RWMutex
	orderingStrategies map[string]strategy.OrderingStrategy
	defaults           map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		orderingStrategies: make(map[string]strategy.OrderingStrategy),
		defaults:           make(map[strategy.StrategyType]string),
	}
}

// RegisterOrderingStrategy registers a candidate ordering strategy
func (r *StrategyRegistry) RegisterOrderingStrategy(s strategy.OrderingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.orderingStrategies[name]; exists {
		return fmt.Errorf("%w: ordering strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.orderingStrategies[name] = s
	return nil
}

// GetOrderingStrategy returns an ordering strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetOrderingStrategy(name string) (strategy.OrderingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeOrdering]
		if name == "" {
			return nil, fmt.Errorf("%w: no default ordering strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.orderingStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: ordering strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetOrderingStrategyOrDefault returns an ordering strategy by name, or the default if not found
func (r *StrategyRegistry) GetOrderingStrategyOrDefault(name string) strategy.OrderingStrategy {
	s, err := r.GetOrderingStrategy(name)
	if err != nil {
		s, _ = r.GetOrderingStrategy("")
	}
	return s
}

// ListOrderingStrategies returns all registered ordering strategy names
func (r *StrategyRegistry) ListOrderingStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.orderingStrategies))
	for name := range r.orderingStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterOrderingStrategy removes an ordering strategy
func (r *StrategyRegistry) UnregisterOrderingStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orderingStrategies[name]; !exists {
		return fmt.Errorf("%w: ordering strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.orderingStrategies, name)

	// Clear default if it was this strategy
	if r.defaults[strategy.StrategyTypeOrdering] == name {
		delete(r.defaults, strategy.StrategyTypeOrdering)
	}
	return nil
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRegisteredLocked(strategyType, name) {
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

// IsRegistered returns true if a strategy with the given name is registered for the type
func (r *StrategyRegistry) IsRegistered(strategyType strategy.StrategyType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRegisteredLocked(strategyType, name)
}

// isRegisteredLocked checks registration without locking (caller must hold lock)
func (r *StrategyRegistry) isRegisteredLocked(strategyType strategy.StrategyType, name string) bool {
	switch strategyType {
	case strategy.StrategyTypeOrdering:
		_, exists := r.orderingStrategies[name]
		return exists
	default:
		return false
	}
}

// Stats returns registration counts for each strategy type
func (r *StrategyRegistry) Stats() map[strategy.StrategyType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[strategy.StrategyType]int{
		strategy.StrategyTypeOrdering: len(r.orderingStrategies),
	}
}
