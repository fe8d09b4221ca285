package matching

import (
	"sort"

	"github.com/erp/warehouse/internal/domain/shared/strategy"
)

// FEFOOrderingStrategy implements First Expired First Out.
// Lines with an expiration date come first, earliest date first; lines without one
// follow in FIFO order. Ties on the date fall back to FIFO.
type FEFOOrderingStrategy struct {
	strategy.BaseStrategy
}

// NewFEFOOrderingStrategy creates a new FEFO ordering strategy
func NewFEFOOrderingStrategy() *FEFOOrderingStrategy {
	return &FEFOOrderingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fefo",
			strategy.StrategyTypeOrdering,
			"First Expired First Out - consumes the earliest expiring inbound lines first",
		),
	}
}

// Order sorts candidates by expiration date with FIFO as tie-break
func (s *FEFOOrderingStrategy) Order(candidates []strategy.Candidate) []strategy.Candidate {
	ordered := make([]strategy.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		iExpiry := ordered[i].ExpirationDate
		jExpiry := ordered[j].ExpirationDate

		switch {
		case iExpiry == nil && jExpiry == nil:
			return strategy.ConfirmedBefore(ordered[i], ordered[j])
		case iExpiry == nil:
			return false
		case jExpiry == nil:
			return true
		case !iExpiry.Equal(*jExpiry):
			return iExpiry.Before(*jExpiry)
		default:
			return strategy.ConfirmedBefore(ordered[i], ordered[j])
		}
	})
	return ordered
}

// ConsidersExpiry returns true as FEFO orders by expiration date
func (s *FEFOOrderingStrategy) ConsidersExpiry() bool {
	return true
}
