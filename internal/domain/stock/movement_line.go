package stock

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether a line brings stock into a warehouse or takes it out
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid returns true if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// LineState is the confirmation state of a movement line
type LineState string

const (
	LineStateDraft LineState = "draft"
	LineStateDone  LineState = "done"
)

// MovementLine is one line of an inbound or outbound stock movement.
//
// For inbound lines RemainingQuantity is owned by the tracker: it always equals
// Quantity minus the quantities of the matches consuming the line. Outbound lines
// keep a zero remaining quantity. Version is advanced by the repository on every save.
type MovementLine struct {
	shared.TenantEntity
	MoveID                     uuid.UUID
	GoodID                     uuid.UUID
	WarehouseID                uuid.UUID
	Direction                  Direction
	State                      LineState
	LotNumber                  string
	AttributeID                *uuid.UUID
	Quantity                   decimal.Decimal
	SecondaryQuantity          decimal.Decimal
	UnitCost                   decimal.Decimal
	Cost                       decimal.Decimal
	RemainingQuantity          decimal.Decimal
	RemainingSecondaryQuantity decimal.Decimal
	ExpirationDate             *time.Time
	ConfirmedAt                *time.Time
}

// LineInput carries the editable attributes of a movement line
type LineInput struct {
	GoodID            uuid.UUID
	WarehouseID       uuid.UUID
	Direction         Direction
	LotNumber         string
	AttributeID       *uuid.UUID
	Quantity          decimal.Decimal
	SecondaryQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	ExpirationDate    *time.Time
}

func (in LineInput) validate() error {
	if in.GoodID == uuid.Nil {
		return shared.NewDomainError("INVALID_GOOD", "Good ID cannot be empty")
	}
	if in.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !in.Direction.IsValid() {
		return shared.NewDomainError("INVALID_DIRECTION", "Direction must be 'in' or 'out'")
	}
	if in.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if in.SecondaryQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Secondary quantity cannot be negative")
	}
	if in.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if exceedsScale(in.Quantity) || exceedsScale(in.SecondaryQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantities cannot have more than %d decimal places", StorageScale))
	}
	if exceedsScale(in.UnitCost) {
		return shared.NewDomainError("INVALID_COST",
			fmt.Sprintf("Unit cost cannot have more than %d decimal places", StorageScale))
	}
	return nil
}

func exceedsScale(d decimal.Decimal) bool {
	return !d.Equal(d.Round(StorageScale))
}

// NewMovementLine creates a draft movement line belonging to the given move
func NewMovementLine(tenantID, moveID uuid.UUID, in LineInput) (*MovementLine, error) {
	if moveID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MOVE", "Move ID cannot be empty")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	line := &MovementLine{
		TenantEntity: shared.NewTenantEntity(tenantID),
		MoveID:       moveID,
		GoodID:       in.GoodID,
		WarehouseID:  in.WarehouseID,
		Direction:    in.Direction,
		State:        LineStateDraft,
	}
	line.assign(in)
	return line, nil
}

func (l *MovementLine) assign(in LineInput) {
	l.LotNumber = strings.TrimSpace(in.LotNumber)
	l.AttributeID = in.AttributeID
	l.Quantity = in.Quantity
	l.SecondaryQuantity = in.SecondaryQuantity
	l.ExpirationDate = in.ExpirationDate
	if l.IsInbound() {
		l.UnitCost = in.UnitCost
		l.Cost = in.Quantity.Mul(in.UnitCost).Round(StorageScale)
		l.RemainingQuantity = in.Quantity
		l.RemainingSecondaryQuantity = in.SecondaryQuantity
		return
	}
	// outbound cost comes from allocation; a caller-supplied unit cost is only
	// kept for goods that never match
	l.UnitCost = in.UnitCost
	l.Cost = in.Quantity.Mul(in.UnitCost).Round(StorageScale)
	l.RemainingQuantity = decimal.Zero
	l.RemainingSecondaryQuantity = decimal.Zero
}

// Update changes the editable attributes of a draft line.
// Good, warehouse and direction are fixed at creation.
func (l *MovementLine) Update(in LineInput) error {
	if !l.IsDraft() {
		return ErrLineNotDraft
	}
	in.GoodID = l.GoodID
	in.WarehouseID = l.WarehouseID
	in.Direction = l.Direction
	if err := in.validate(); err != nil {
		return err
	}
	l.assign(in)
	l.Touch()
	return nil
}

// IsInbound returns true for lines bringing stock in
func (l *MovementLine) IsInbound() bool {
	return l.Direction == DirectionIn
}

// IsOutbound returns true for lines taking stock out
func (l *MovementLine) IsOutbound() bool {
	return l.Direction == DirectionOut
}

// IsDraft returns true if the line has not been confirmed
func (l *MovementLine) IsDraft() bool {
	return l.State == LineStateDraft
}

// IsDone returns true if the line has been confirmed
func (l *MovementLine) IsDone() bool {
	return l.State == LineStateDone
}

// ConsumedQuantity returns how much of an inbound line has been matched
func (l *MovementLine) ConsumedQuantity() decimal.Decimal {
	if !l.IsInbound() {
		return decimal.Zero
	}
	return l.Quantity.Sub(l.RemainingQuantity)
}

// HasAvailable returns true if a confirmed inbound line still has quantity to match
func (l *MovementLine) HasAvailable() bool {
	return l.IsInbound() && l.IsDone() && l.RemainingQuantity.IsPositive()
}

// Confirm moves a draft line to done. Matching is applied separately by the allocator.
func (l *MovementLine) Confirm(at time.Time) error {
	if !l.IsDraft() {
		return ErrLineNotDraft
	}
	l.State = LineStateDone
	confirmedAt := at
	l.ConfirmedAt = &confirmedAt
	l.Touch()
	l.AddDomainEvent(NewMovementLineConfirmedEvent(l))
	return nil
}

// candidate returns the view of the line used by ordering strategies
func (l *MovementLine) candidate() strategy.Candidate {
	c := strategy.Candidate{
		ID:             l.ID,
		CreatedAt:      l.CreatedAt,
		ExpirationDate: l.ExpirationDate,
		Remaining:      l.RemainingQuantity,
	}
	if l.ConfirmedAt != nil {
		c.ConfirmedAt = *l.ConfirmedAt
	}
	return c
}
