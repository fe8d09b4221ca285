package stock

import (
	"fmt"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line state errors
var (
	ErrLineNotDraft     = shared.NewDomainError("LINE_NOT_DRAFT", "Movement line is not in draft state")
	ErrLineNotConfirmed = shared.NewDomainError("LINE_NOT_CONFIRMED", "Movement line is not confirmed")
	ErrLineHasMatches   = shared.NewDomainError("LINE_HAS_MATCHES", "Movement line is referenced by matches")
	ErrLotRequired      = shared.NewDomainError("LOT_REQUIRED", "Lot number is required for lot-tracked goods")
)

// InsufficientStockError is returned when eligible inbound lines cannot cover an outbound line.
// Nothing is allocated when it is returned.
type InsufficientStockError struct {
	GoodID      uuid.UUID
	WarehouseID uuid.UUID
	LotNumber   string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// Shortfall returns the quantity that could not be matched
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("insufficient stock for good %s in warehouse %s: requested %s, available %s, short %s",
		e.GoodID, e.WarehouseID, e.Requested, e.Available, e.Shortfall())
	if e.LotNumber != "" {
		msg += " (lot " + e.LotNumber + ")"
	}
	return msg
}

// Unwrap lets errors.Is(err, shared.ErrInsufficientStock) match
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// AlreadyMatchedError is returned when an inbound line whose quantity has been consumed
// is reverted. The dependent outbound lines must be reverted first.
type AlreadyMatchedError struct {
	LineID    uuid.UUID
	Quantity  decimal.Decimal
	Remaining decimal.Decimal
}

func (e *AlreadyMatchedError) Error() string {
	return fmt.Sprintf("movement line %s has %s of %s already matched; revert the outbound lines consuming it first",
		e.LineID, e.Quantity.Sub(e.Remaining), e.Quantity)
}

// Unwrap lets errors.Is(err, shared.ErrAlreadyMatched) match
func (e *AlreadyMatchedError) Unwrap() error {
	return shared.ErrAlreadyMatched
}

// InvariantViolationError signals a matching logic defect. It always aborts the transaction.
type InvariantViolationError struct {
	LineID uuid.UUID
	Reason string
}

// NewInvariantViolation creates an invariant violation for the given line
func NewInvariantViolation(lineID uuid.UUID, reason string) *InvariantViolationError {
	return &InvariantViolationError{LineID: lineID, Reason: reason}
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("matching invariant violated on line %s: %s", e.LineID, e.Reason)
}

// Unwrap lets errors.Is(err, shared.ErrInvariantViolation) match
func (e *InvariantViolationError) Unwrap() error {
	return shared.ErrInvariantViolation
}
