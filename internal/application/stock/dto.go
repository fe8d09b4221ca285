package stock

import (
	"time"

	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateGoodRequest carries the fields of a new good
type CreateGoodRequest struct {
	Code         string
	Name         string
	MatchingMode stock.MatchingMode
}

// GoodResponse represents a good in API responses
type GoodResponse struct {
	ID           uuid.UUID          `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	MatchingMode stock.MatchingMode `json:"matching_mode"`
	CreatedAt    time.Time          `json:"created_at"`
}

// CreateWarehouseRequest carries the fields of a new warehouse
type CreateWarehouseRequest struct {
	Code string
	Name string
	Type stock.WarehouseType
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID           `json:"id"`
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	Type      stock.WarehouseType `json:"type"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateLineRequest carries the fields of a new draft movement line
type CreateLineRequest struct {
	MoveID            uuid.UUID
	GoodID            uuid.UUID
	WarehouseID       uuid.UUID
	Direction         stock.Direction
	LotNumber         string
	AttributeID       *uuid.UUID
	Quantity          decimal.Decimal
	SecondaryQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	ExpirationDate    *time.Time
}

// UpdateLineRequest carries the editable fields of a draft line
type UpdateLineRequest struct {
	LotNumber         string
	AttributeID       *uuid.UUID
	Quantity          decimal.Decimal
	SecondaryQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	ExpirationDate    *time.Time
}

// LineResponse represents a movement line in API responses
type LineResponse struct {
	ID                         uuid.UUID       `json:"id"`
	MoveID                     uuid.UUID       `json:"move_id"`
	GoodID                     uuid.UUID       `json:"good_id"`
	WarehouseID                uuid.UUID       `json:"warehouse_id"`
	Direction                  stock.Direction `json:"direction"`
	State                      stock.LineState `json:"state"`
	LotNumber                  string          `json:"lot_number,omitempty"`
	AttributeID                *uuid.UUID      `json:"attribute_id,omitempty"`
	Quantity                   decimal.Decimal `json:"quantity"`
	SecondaryQuantity          decimal.Decimal `json:"secondary_quantity"`
	UnitCost                   decimal.Decimal `json:"unit_cost"`
	Cost                       decimal.Decimal `json:"cost"`
	RemainingQuantity          decimal.Decimal `json:"remaining_quantity"`
	RemainingSecondaryQuantity decimal.Decimal `json:"remaining_secondary_quantity"`
	ConsumedQuantity           decimal.Decimal `json:"consumed_quantity"`
	ExpirationDate             *time.Time      `json:"expiration_date,omitempty"`
	ConfirmedAt                *time.Time      `json:"confirmed_at,omitempty"`
	Version                    int             `json:"version"`
	CreatedAt                  time.Time       `json:"created_at"`
	UpdatedAt                  time.Time       `json:"updated_at"`
}

// MatchResponse represents a match in API responses
type MatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	InboundLineID     uuid.UUID       `json:"inbound_line_id"`
	OutboundLineID    uuid.UUID       `json:"outbound_line_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	SecondaryQuantity decimal.Decimal `json:"secondary_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Cost              decimal.Decimal `json:"cost"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ConfirmResult is the outcome of confirming one line
type ConfirmResult struct {
	Line    LineResponse    `json:"line"`
	Matches []MatchResponse `json:"matches"`
}

// RevertResult is the outcome of returning one line to draft
type RevertResult struct {
	Line     LineResponse    `json:"line"`
	Released []MatchResponse `json:"released"`
}

// MoveResult lists the lines of a movement document after a whole-move operation
type MoveResult struct {
	MoveID  uuid.UUID      `json:"move_id"`
	Lines   []LineResponse `json:"lines"`
	Changed int            `json:"changed"`
}

// AvailableQuery selects the inbound lines an outbound line could consume
type AvailableQuery struct {
	GoodID      uuid.UUID
	WarehouseID uuid.UUID
	LotNumber   *string
	AttributeID *uuid.UUID
}

// AvailableResponse lists eligible inbound lines in allocation order
type AvailableResponse struct {
	GoodID      uuid.UUID       `json:"good_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Ordering    string          `json:"ordering"`
	Total       decimal.Decimal `json:"total"`
	Lines       []LineResponse  `json:"lines"`
}

// ToGoodResponse converts a domain Good
func ToGoodResponse(g *stock.Good) GoodResponse {
	return GoodResponse{
		ID:           g.ID,
		Code:         g.Code,
		Name:         g.Name,
		MatchingMode: g.MatchingMode,
		CreatedAt:    g.CreatedAt,
	}
}

// ToWarehouseResponse converts a domain Warehouse
func ToWarehouseResponse(w *stock.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Type:      w.Type,
		CreatedAt: w.CreatedAt,
	}
}

// ToLineResponse converts a domain MovementLine
func ToLineResponse(l *stock.MovementLine) LineResponse {
	return LineResponse{
		ID:                         l.ID,
		MoveID:                     l.MoveID,
		GoodID:                     l.GoodID,
		WarehouseID:                l.WarehouseID,
		Direction:                  l.Direction,
		State:                      l.State,
		LotNumber:                  l.LotNumber,
		AttributeID:                l.AttributeID,
		Quantity:                   l.Quantity,
		SecondaryQuantity:          l.SecondaryQuantity,
		UnitCost:                   l.UnitCost,
		Cost:                       l.Cost,
		RemainingQuantity:          l.RemainingQuantity,
		RemainingSecondaryQuantity: l.RemainingSecondaryQuantity,
		ConsumedQuantity:           l.ConsumedQuantity(),
		ExpirationDate:             l.ExpirationDate,
		ConfirmedAt:                l.ConfirmedAt,
		Version:                    l.Version,
		CreatedAt:                  l.CreatedAt,
		UpdatedAt:                  l.UpdatedAt,
	}
}

// ToLineResponses converts a slice of domain lines
func ToLineResponses(lines []stock.MovementLine) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i := range lines {
		out[i] = ToLineResponse(&lines[i])
	}
	return out
}

// ToMatchResponse converts a domain Match
func ToMatchResponse(m *stock.Match) MatchResponse {
	return MatchResponse{
		ID:                m.ID,
		InboundLineID:     m.InboundLineID,
		OutboundLineID:    m.OutboundLineID,
		Quantity:          m.Quantity,
		SecondaryQuantity: m.SecondaryQuantity,
		UnitCost:          m.UnitCost,
		Cost:              m.Cost(),
		ExpirationDate:    m.ExpirationDate,
		CreatedAt:         m.CreatedAt,
	}
}

// ToMatchResponses converts a slice of domain matches
func ToMatchResponses(matches []stock.Match) []MatchResponse {
	out := make([]MatchResponse, len(matches))
	for i := range matches {
		out[i] = ToMatchResponse(&matches[i])
	}
	return out
}
