package strategy

import (
	"github.com/erp/warehouse/internal/domain/shared/strategy"
	"github.com/erp/warehouse/internal/infrastructure/strategy/matching"
)

// NewRegistryWithDefaults creates a registry with the built-in ordering strategies.
// FIFO is the default policy.
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	fifo := matching.NewFIFOOrderingStrategy()
	if err := r.RegisterOrderingStrategy(fifo); err != nil {
		return nil, err
	}

	fefo := matching.NewFEFOOrderingStrategy()
	if err := r.RegisterOrderingStrategy(fefo); err != nil {
		return nil, err
	}

	if err := r.SetDefault(strategy.StrategyTypeOrdering, fifo.Name()); err != nil {
		return nil, err
	}

	return r, nil
}
