package matching

import (
	"sort"

	"github.com/erp/warehouse/internal/domain/shared/strategy"
)

// FIFOOrderingStrategy consumes the earliest confirmed inbound line first
type FIFOOrderingStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOOrderingStrategy creates a new FIFO ordering strategy
func NewFIFOOrderingStrategy() *FIFOOrderingStrategy {
	return &FIFOOrderingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo",
			strategy.StrategyTypeOrdering,
			"First In First Out - consumes inbound lines in confirmation order",
		),
	}
}

// Order sorts candidates by confirmation time, then creation time, then id
func (s *FIFOOrderingStrategy) Order(candidates []strategy.Candidate) []strategy.Candidate {
	ordered := make([]strategy.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return strategy.ConfirmedBefore(ordered[i], ordered[j])
	})
	return ordered
}

// ConsidersExpiry returns false as FIFO ignores expiration dates
func (s *FIFOOrderingStrategy) ConsidersExpiry() bool {
	return false
}
