package stock

import (
	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeMovementLine = "MovementLine"

// Event type constants
const (
	EventTypeMovementLineConfirmed = "MovementLineConfirmed"
	EventTypeStockMatched          = "StockMatched"
	EventTypeMovementLineReverted  = "MovementLineReverted"
)

// MatchedQuantity describes one match carried by an event
type MatchedQuantity struct {
	MatchID           uuid.UUID       `json:"match_id"`
	InboundLineID     uuid.UUID       `json:"inbound_line_id"`
	OutboundLineID    uuid.UUID       `json:"outbound_line_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	SecondaryQuantity decimal.Decimal `json:"secondary_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
}

func newMatchedQuantity(m *Match) MatchedQuantity {
	return MatchedQuantity{
		MatchID:           m.ID,
		InboundLineID:     m.InboundLineID,
		OutboundLineID:    m.OutboundLineID,
		Quantity:          m.Quantity,
		SecondaryQuantity: m.SecondaryQuantity,
		UnitCost:          m.UnitCost,
	}
}

// MovementLineConfirmedEvent is raised when a line moves from draft to done
type MovementLineConfirmedEvent struct {
	shared.BaseDomainEvent
	MoveID      uuid.UUID       `json:"move_id"`
	GoodID      uuid.UUID       `json:"good_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Direction   Direction       `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	LotNumber   string          `json:"lot_number,omitempty"`
}

// NewMovementLineConfirmedEvent creates a new MovementLineConfirmedEvent
func NewMovementLineConfirmedEvent(l *MovementLine) *MovementLineConfirmedEvent {
	return &MovementLineConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementLineConfirmed, AggregateTypeMovementLine, l.ID, l.TenantID),
		MoveID:          l.MoveID,
		GoodID:          l.GoodID,
		WarehouseID:     l.WarehouseID,
		Direction:       l.Direction,
		Quantity:        l.Quantity,
		LotNumber:       l.LotNumber,
	}
}

// StockMatchedEvent is raised when an outbound line has been allocated
type StockMatchedEvent struct {
	shared.BaseDomainEvent
	GoodID      uuid.UUID         `json:"good_id"`
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	Quantity    decimal.Decimal   `json:"quantity"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
	UnitCost    decimal.Decimal   `json:"unit_cost"`
	Matches     []MatchedQuantity `json:"matches"`
}

// NewStockMatchedEvent creates a new StockMatchedEvent
func NewStockMatchedEvent(outbound *MovementLine, alloc *Allocation) *StockMatchedEvent {
	matches := make([]MatchedQuantity, 0, len(alloc.Matches))
	for _, m := range alloc.Matches {
		matches = append(matches, newMatchedQuantity(m))
	}
	return &StockMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMatched, AggregateTypeMovementLine, outbound.ID, outbound.TenantID),
		GoodID:          outbound.GoodID,
		WarehouseID:     outbound.WarehouseID,
		Quantity:        alloc.Requested,
		TotalCost:       alloc.TotalCost,
		UnitCost:        alloc.UnitCost,
		Matches:         matches,
	}
}

// MovementLineRevertedEvent is raised when a confirmed line returns to draft
type MovementLineRevertedEvent struct {
	shared.BaseDomainEvent
	MoveID    uuid.UUID         `json:"move_id"`
	Direction Direction         `json:"direction"`
	Released  []MatchedQuantity `json:"released"`
}

// NewMovementLineRevertedEvent creates a new MovementLineRevertedEvent
func NewMovementLineRevertedEvent(l *MovementLine, released []Match) *MovementLineRevertedEvent {
	items := make([]MatchedQuantity, 0, len(released))
	for i := range released {
		items = append(items, newMatchedQuantity(&released[i]))
	}
	return &MovementLineRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementLineReverted, AggregateTypeMovementLine, l.ID, l.TenantID),
		MoveID:          l.MoveID,
		Direction:       l.Direction,
		Released:        items,
	}
}
