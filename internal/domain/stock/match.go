package stock

import (
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Match records that a quantity of an inbound line was consumed by an outbound line.
// Matches are created only by the allocator and removed only by reversal.
type Match struct {
	shared.BaseEntity
	TenantID          uuid.UUID
	InboundLineID     uuid.UUID
	OutboundLineID    uuid.UUID
	Quantity          decimal.Decimal
	SecondaryQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	ExpirationDate    *time.Time
}

// NewMatch links quantity of inbound to outbound, copying the inbound expiration date
func NewMatch(inbound, outbound *MovementLine, quantity, secondaryQuantity decimal.Decimal) (*Match, error) {
	if !quantity.IsPositive() {
		return nil, NewInvariantViolation(inbound.ID, "match quantity must be positive, got "+quantity.String())
	}
	if quantity.GreaterThan(inbound.Quantity) {
		return nil, NewInvariantViolation(inbound.ID, "match quantity "+quantity.String()+" exceeds inbound quantity "+inbound.Quantity.String())
	}
	return &Match{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          inbound.TenantID,
		InboundLineID:     inbound.ID,
		OutboundLineID:    outbound.ID,
		Quantity:          quantity,
		SecondaryQuantity: secondaryQuantity,
		UnitCost:          inbound.UnitCost,
		ExpirationDate:    inbound.ExpirationDate,
	}, nil
}

// Cost returns the value of the matched quantity at the inbound unit cost
func (m *Match) Cost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// Involves returns true if the line is either side of the match
func (m *Match) Involves(lineID uuid.UUID) bool {
	return m.InboundLineID == lineID || m.OutboundLineID == lineID
}
