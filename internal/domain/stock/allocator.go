package stock

import (
	"sort"
	"time"

	"github.com/erp/warehouse/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCostPrecision is the number of decimal places kept on allocated unit costs
const DefaultCostPrecision = StorageScale

// StorageScale is the number of decimal places stored for quantities and costs
const StorageScale int32 = 4

// secondaryPrecision is the number of decimal places kept on proportional secondary quantities
const secondaryPrecision = StorageScale

// Allocator matches outbound lines against confirmed inbound lines of the same good
// and warehouse, and derives the outbound cost from what it consumed.
//
// The allocator does no I/O. Callers load and lock the candidates, hand them to Plan,
// then persist the resulting matches and line changes in the same transaction.
type Allocator struct {
	ordering      strategy.OrderingStrategy
	costPrecision int32
}

// AllocatorOption is a functional option for configuring Allocator
type AllocatorOption func(*Allocator)

// WithOrdering sets the policy deciding which inbound lines are consumed first
func WithOrdering(ordering strategy.OrderingStrategy) AllocatorOption {
	return func(a *Allocator) {
		if ordering != nil {
			a.ordering = ordering
		}
	}
}

// WithCostPrecision sets the rounding precision of allocated unit costs
func WithCostPrecision(places int32) AllocatorOption {
	return func(a *Allocator) {
		if places >= 0 && places <= StorageScale {
			a.costPrecision = places
		}
	}
}

// NewAllocator creates an allocator. Without WithOrdering candidates are consumed
// oldest confirmation first.
func NewAllocator(opts ...AllocatorOption) *Allocator {
	a := &Allocator{costPrecision: DefaultCostPrecision}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OrderingName returns the name of the active ordering policy
func (a *Allocator) OrderingName() string {
	if a.ordering == nil {
		return "fifo"
	}
	return a.ordering.Name()
}

// Consumption is the quantity taken from one inbound line by an allocation
type Consumption struct {
	Line              *MovementLine
	Quantity          decimal.Decimal
	SecondaryQuantity decimal.Decimal
}

// Allocation is the outcome of matching one outbound line
type Allocation struct {
	OutboundLineID uuid.UUID
	Matches        []*Match
	Consumptions   []Consumption
	Requested      decimal.Decimal
	TotalCost      decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
}

// MatchedQuantity returns the total quantity across the allocation's matches
func (a *Allocation) MatchedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, m := range a.Matches {
		total = total.Add(m.Quantity)
	}
	return total
}

// IsEligible reports whether candidate may satisfy outbound for the given good
func (a *Allocator) IsEligible(outbound *MovementLine, good *Good, candidate *MovementLine) bool {
	if candidate == nil || candidate.ID == outbound.ID {
		return false
	}
	if !candidate.HasAvailable() {
		return false
	}
	if candidate.TenantID != outbound.TenantID ||
		candidate.GoodID != outbound.GoodID ||
		candidate.WarehouseID != outbound.WarehouseID {
		return false
	}
	if good.UsesLotMatching() && candidate.LotNumber != outbound.LotNumber {
		return false
	}
	if outbound.AttributeID != nil {
		if candidate.AttributeID == nil || *candidate.AttributeID != *outbound.AttributeID {
			return false
		}
	}
	return true
}

// Plan computes the matches satisfying outbound from candidates. Ineligible candidates
// are skipped. Either the whole quantity is covered or an *InsufficientStockError is
// returned and nothing is planned. Plan does not modify any line.
func (a *Allocator) Plan(outbound *MovementLine, good *Good, candidates []*MovementLine) (*Allocation, error) {
	if !outbound.IsOutbound() {
		return nil, NewInvariantViolation(outbound.ID, "allocation requested for an inbound line")
	}
	if good.ID != outbound.GoodID {
		return nil, NewInvariantViolation(outbound.ID, "good does not match the outbound line")
	}
	if good.UsesLotMatching() && outbound.LotNumber == "" && outbound.Quantity.IsPositive() {
		return nil, ErrLotRequired
	}

	alloc := &Allocation{
		OutboundLineID: outbound.ID,
		Requested:      outbound.Quantity,
		TotalCost:      decimal.Zero,
		UnitCost:       decimal.Zero,
	}
	if !outbound.Quantity.IsPositive() {
		return alloc, nil
	}

	eligible := make(map[uuid.UUID]*MovementLine, len(candidates))
	views := make([]strategy.Candidate, 0, len(candidates))
	available := decimal.Zero
	for _, c := range candidates {
		if !a.IsEligible(outbound, good, c) {
			continue
		}
		if _, dup := eligible[c.ID]; dup {
			continue
		}
		eligible[c.ID] = c
		views = append(views, c.candidate())
		available = available.Add(c.RemainingQuantity)
	}

	if available.LessThan(outbound.Quantity) {
		return nil, &InsufficientStockError{
			GoodID:      outbound.GoodID,
			WarehouseID: outbound.WarehouseID,
			LotNumber:   outbound.LotNumber,
			Requested:   outbound.Quantity,
			Available:   available,
		}
	}

	need := outbound.Quantity
	for _, view := range a.order(views) {
		if !need.IsPositive() {
			break
		}
		line := eligible[view.ID]
		take := decimal.Min(line.RemainingQuantity, need)
		secondary := proportionalSecondary(line, take)

		m, err := NewMatch(line, outbound, take, secondary)
		if err != nil {
			return nil, err
		}
		alloc.Matches = append(alloc.Matches, m)
		alloc.Consumptions = append(alloc.Consumptions, Consumption{
			Line:              line,
			Quantity:          take,
			SecondaryQuantity: secondary,
		})
		alloc.TotalCost = alloc.TotalCost.Add(m.Cost())
		need = need.Sub(take)
	}
	if need.IsPositive() {
		// available was checked above; reaching here means the ordering dropped candidates
		return nil, NewInvariantViolation(outbound.ID, "ordering policy "+a.OrderingName()+" lost candidates")
	}

	alloc.UnitCost = alloc.TotalCost.Div(outbound.Quantity).Round(a.costPrecision)
	alloc.TotalCost = alloc.TotalCost.Round(StorageScale)
	if good.UsesLotMatching() && len(alloc.Matches) > 0 {
		alloc.ExpirationDate = alloc.Matches[0].ExpirationDate
	}
	return alloc, nil
}

// Apply writes the allocation's cost onto outbound, copies the expiration date for
// lot-tracked goods and records a StockMatched event. Inbound remaining quantities are
// left to the tracker once the matches are stored.
func (a *Allocator) Apply(outbound *MovementLine, good *Good, alloc *Allocation) {
	outbound.Cost = alloc.TotalCost
	outbound.UnitCost = alloc.UnitCost
	if good.UsesLotMatching() {
		outbound.ExpirationDate = alloc.ExpirationDate
	}
	outbound.Touch()
	if len(alloc.Matches) > 0 {
		outbound.AddDomainEvent(NewStockMatchedEvent(outbound, alloc))
	}
}

// OrderLines returns lines in the order the active policy would consume them.
// The input slice is not modified.
func (a *Allocator) OrderLines(lines []*MovementLine) []*MovementLine {
	byID := make(map[uuid.UUID]*MovementLine, len(lines))
	views := make([]strategy.Candidate, 0, len(lines))
	for _, l := range lines {
		byID[l.ID] = l
		views = append(views, l.candidate())
	}
	ordered := make([]*MovementLine, 0, len(lines))
	for _, v := range a.order(views) {
		ordered = append(ordered, byID[v.ID])
	}
	return ordered
}

func (a *Allocator) order(views []strategy.Candidate) []strategy.Candidate {
	if a.ordering != nil {
		return a.ordering.Order(views)
	}
	ordered := make([]strategy.Candidate, len(views))
	copy(ordered, views)
	sort.SliceStable(ordered, func(i, j int) bool {
		return strategy.ConfirmedBefore(ordered[i], ordered[j])
	})
	return ordered
}

// proportionalSecondary converts a primary quantity taken from line into secondary units
// using the line's own ratio. Emptying the line takes its exact remaining secondary quantity.
func proportionalSecondary(line *MovementLine, take decimal.Decimal) decimal.Decimal {
	if take.Equal(line.RemainingQuantity) {
		return line.RemainingSecondaryQuantity
	}
	if line.Quantity.IsZero() || line.SecondaryQuantity.IsZero() {
		return decimal.Zero
	}
	secondary := take.Mul(line.SecondaryQuantity).Div(line.Quantity).Round(secondaryPrecision)
	if secondary.GreaterThan(line.RemainingSecondaryQuantity) {
		return line.RemainingSecondaryQuantity
	}
	return secondary
}
