package stock

import (
	"github.com/shopspring/decimal"
)

// ComputeRemaining returns the unconsumed primary and secondary quantity of an inbound
// line given every match in which it is the inbound side. It is a pure function of its
// arguments; matches for other lines are ignored by RecomputeRemaining, not here.
func ComputeRemaining(quantity, secondaryQuantity decimal.Decimal, matches []Match) (decimal.Decimal, decimal.Decimal) {
	remaining := quantity
	remainingSecondary := secondaryQuantity
	for _, m := range matches {
		remaining = remaining.Sub(m.Quantity)
		remainingSecondary = remainingSecondary.Sub(m.SecondaryQuantity)
	}
	return remaining, remainingSecondary
}

// RecomputeRemaining resets the line's remaining quantities from its inbound-side matches.
// A result outside [0, quantity] means matches were over-allocated and is reported as an
// invariant violation without touching the line.
func (l *MovementLine) RecomputeRemaining(matches []Match) error {
	if !l.IsInbound() {
		return nil
	}
	own := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.InboundLineID == l.ID {
			own = append(own, m)
		}
	}
	remaining, remainingSecondary := ComputeRemaining(l.Quantity, l.SecondaryQuantity, own)
	if remaining.IsNegative() {
		return NewInvariantViolation(l.ID, "remaining quantity would be negative: "+remaining.String())
	}
	if remaining.GreaterThan(l.Quantity) {
		return NewInvariantViolation(l.ID, "remaining quantity "+remaining.String()+" exceeds line quantity "+l.Quantity.String())
	}
	if remainingSecondary.IsNegative() {
		return NewInvariantViolation(l.ID, "remaining secondary quantity would be negative: "+remainingSecondary.String())
	}
	if remaining.Equal(l.RemainingQuantity) && remainingSecondary.Equal(l.RemainingSecondaryQuantity) {
		return nil
	}
	l.RemainingQuantity = remaining
	l.RemainingSecondaryQuantity = remainingSecondary
	l.Touch()
	return nil
}
