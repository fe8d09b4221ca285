package stock

import "github.com/shopspring/decimal"

// CheckReversible verifies that a confirmed line may return to draft. An inbound line
// is reversible only while no outbound line consumes any of it.
func (l *MovementLine) CheckReversible() error {
	if !l.IsDone() {
		return ErrLineNotConfirmed
	}
	if l.IsInbound() && !l.RemainingQuantity.Equal(l.Quantity) {
		return &AlreadyMatchedError{
			LineID:    l.ID,
			Quantity:  l.Quantity,
			Remaining: l.RemainingQuantity,
		}
	}
	return nil
}

// ResetToDraft returns a confirmed line to draft after its matches have been deleted.
// An outbound line that had matches loses the cost and expiration date the allocator
// gave it; without matches its cost was entered by the caller and is kept.
func (l *MovementLine) ResetToDraft(released []Match) error {
	if err := l.CheckReversible(); err != nil {
		return err
	}
	l.State = LineStateDraft
	l.ConfirmedAt = nil
	if l.IsOutbound() && len(released) > 0 {
		l.Cost = decimal.Zero
		l.UnitCost = decimal.Zero
		l.ExpirationDate = nil
	}
	l.Touch()
	l.AddDomainEvent(NewMovementLineRevertedEvent(l, released))
	return nil
}
