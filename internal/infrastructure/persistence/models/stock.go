package models

import (
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodModel is the persistence model for a stockable good.
type GoodModel struct {
	TenantModel
	Code         string `gorm:"type:varchar(50);not null;index"`
	Name         string `gorm:"type:varchar(200);not null"`
	MatchingMode string `gorm:"type:varchar(10);not null;default:'plain'"`
}

// TableName returns the table name for GORM
func (GoodModel) TableName() string {
	return "goods"
}

// ToDomain converts the persistence model to a domain Good.
func (m *GoodModel) ToDomain() *stock.Good {
	return &stock.Good{
		TenantEntity: m.ToDomainTenantEntity(),
		Code:         m.Code,
		Name:         m.Name,
		MatchingMode: stock.MatchingMode(m.MatchingMode),
	}
}

// FromDomain populates the persistence model from a domain Good.
func (m *GoodModel) FromDomain(g *stock.Good) {
	m.FromDomainTenantEntity(g.TenantEntity)
	m.Code = g.Code
	m.Name = g.Name
	m.MatchingMode = string(g.MatchingMode)
}

// GoodModelFromDomain creates a new persistence model from a domain Good.
func GoodModelFromDomain(g *stock.Good) *GoodModel {
	m := &GoodModel{}
	m.FromDomain(g)
	return m
}

// WarehouseModel is the persistence model for a stock location.
type WarehouseModel struct {
	TenantModel
	Code string `gorm:"type:varchar(50);not null;index"`
	Name string `gorm:"type:varchar(200);not null"`
	Type string `gorm:"type:varchar(20);not null;default:'stock'"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse.
func (m *WarehouseModel) ToDomain() *stock.Warehouse {
	return &stock.Warehouse{
		TenantEntity: m.ToDomainTenantEntity(),
		Code:         m.Code,
		Name:         m.Name,
		Type:         stock.WarehouseType(m.Type),
	}
}

// FromDomain populates the persistence model from a domain Warehouse.
func (m *WarehouseModel) FromDomain(w *stock.Warehouse) {
	m.FromDomainTenantEntity(w.TenantEntity)
	m.Code = w.Code
	m.Name = w.Name
	m.Type = string(w.Type)
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse.
func WarehouseModelFromDomain(w *stock.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}

// MovementLineModel is the persistence model for a stock movement line.
// The candidate index covers the lookup the allocator runs for every outbound confirmation.
type MovementLineModel struct {
	TenantModel
	MoveID                     uuid.UUID       `gorm:"type:uuid;not null;index"`
	GoodID                     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_lines_candidates,priority:1"`
	WarehouseID                uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_lines_candidates,priority:2"`
	Direction                  string          `gorm:"type:varchar(3);not null;index:idx_movement_lines_candidates,priority:3"`
	State                      string          `gorm:"type:varchar(10);not null;default:'draft';index:idx_movement_lines_candidates,priority:4"`
	LotNumber                  string          `gorm:"type:varchar(100);not null;default:''"`
	AttributeID                *uuid.UUID      `gorm:"type:uuid"`
	Quantity                   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SecondaryQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost                   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cost                       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingSecondaryQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpirationDate             *time.Time
	ConfirmedAt                *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (MovementLineModel) TableName() string {
	return "movement_lines"
}

// ToDomain converts the persistence model to a domain MovementLine.
func (m *MovementLineModel) ToDomain() *stock.MovementLine {
	return &stock.MovementLine{
		TenantEntity:               m.ToDomainTenantEntity(),
		MoveID:                     m.MoveID,
		GoodID:                     m.GoodID,
		WarehouseID:                m.WarehouseID,
		Direction:                  stock.Direction(m.Direction),
		State:                      stock.LineState(m.State),
		LotNumber:                  m.LotNumber,
		AttributeID:                m.AttributeID,
		Quantity:                   m.Quantity,
		SecondaryQuantity:          m.SecondaryQuantity,
		UnitCost:                   m.UnitCost,
		Cost:                       m.Cost,
		RemainingQuantity:          m.RemainingQuantity,
		RemainingSecondaryQuantity: m.RemainingSecondaryQuantity,
		ExpirationDate:             m.ExpirationDate,
		ConfirmedAt:                m.ConfirmedAt,
	}
}

// FromDomain populates the persistence model from a domain MovementLine.
func (m *MovementLineModel) FromDomain(l *stock.MovementLine) {
	m.FromDomainTenantEntity(l.TenantEntity)
	m.MoveID = l.MoveID
	m.GoodID = l.GoodID
	m.WarehouseID = l.WarehouseID
	m.Direction = string(l.Direction)
	m.State = string(l.State)
	m.LotNumber = l.LotNumber
	m.AttributeID = l.AttributeID
	m.Quantity = l.Quantity
	m.SecondaryQuantity = l.SecondaryQuantity
	m.UnitCost = l.UnitCost
	m.Cost = l.Cost
	m.RemainingQuantity = l.RemainingQuantity
	m.RemainingSecondaryQuantity = l.RemainingSecondaryQuantity
	m.ExpirationDate = l.ExpirationDate
	m.ConfirmedAt = l.ConfirmedAt
}

// MovementLineModelFromDomain creates a new persistence model from a domain MovementLine.
func MovementLineModelFromDomain(l *stock.MovementLine) *MovementLineModel {
	m := &MovementLineModel{}
	m.FromDomain(l)
	return m
}

// MatchModel is the persistence model for a match between an inbound and an outbound line.
type MatchModel struct {
	BaseModel
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	InboundLineID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OutboundLineID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SecondaryQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpirationDate    *time.Time
}

// TableName returns the table name for GORM
func (MatchModel) TableName() string {
	return "stock_matches"
}

// ToDomain converts the persistence model to a domain Match.
func (m *MatchModel) ToDomain() *stock.Match {
	return &stock.Match{
		BaseEntity:        shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		TenantID:          m.TenantID,
		InboundLineID:     m.InboundLineID,
		OutboundLineID:    m.OutboundLineID,
		Quantity:          m.Quantity,
		SecondaryQuantity: m.SecondaryQuantity,
		UnitCost:          m.UnitCost,
		ExpirationDate:    m.ExpirationDate,
	}
}

// FromDomain populates the persistence model from a domain Match.
func (m *MatchModel) FromDomain(mt *stock.Match) {
	m.FromDomainBaseEntity(mt.BaseEntity)
	m.TenantID = mt.TenantID
	m.InboundLineID = mt.InboundLineID
	m.OutboundLineID = mt.OutboundLineID
	m.Quantity = mt.Quantity
	m.SecondaryQuantity = mt.SecondaryQuantity
	m.UnitCost = mt.UnitCost
	m.ExpirationDate = mt.ExpirationDate
}

// MatchModelFromDomain creates a new persistence model from a domain Match.
func MatchModelFromDomain(mt *stock.Match) *MatchModel {
	m := &MatchModel{}
	m.FromDomain(mt)
	return m
}

// All returns every model the stock schema consists of, in dependency order.
func All() []any {
	return []any{
		&GoodModel{},
		&WarehouseModel{},
		&MovementLineModel{},
		&MatchModel{},
	}
}
