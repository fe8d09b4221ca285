package stock

import (
	"context"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
)

// CandidateQuery selects confirmed inbound lines with remaining quantity
type CandidateQuery struct {
	TenantID    uuid.UUID
	GoodID      uuid.UUID
	WarehouseID uuid.UUID
	// LotNumber restricts candidates to one lot when non-nil
	LotNumber *string
	// AttributeID restricts candidates to one good variant when non-nil
	AttributeID *uuid.UUID
}

// CandidateQueryFor builds the candidate query an outbound line of good needs
func CandidateQueryFor(outbound *MovementLine, good *Good) CandidateQuery {
	q := CandidateQuery{
		TenantID:    outbound.TenantID,
		GoodID:      outbound.GoodID,
		WarehouseID: outbound.WarehouseID,
		AttributeID: outbound.AttributeID,
	}
	if good.UsesLotMatching() {
		lot := outbound.LotNumber
		q.LotNumber = &lot
	}
	return q
}

// MovementLineRepository defines the interface for movement line persistence
type MovementLineRepository interface {
	// FindByID finds a movement line by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*MovementLine, error)

	// FindByIDForUpdate finds a movement line and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*MovementLine, error)

	// FindByIDsForUpdate finds the given lines and locks their rows in the order
	// FindCandidatesForUpdate locks them, so reversals and allocations over the same
	// inbound lines queue instead of deadlocking
	FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]MovementLine, error)

	// FindByMove finds all lines of a movement document
	FindByMove(ctx context.Context, tenantID, moveID uuid.UUID) ([]MovementLine, error)

	// FindCandidates finds confirmed inbound lines with remaining quantity in confirmation order
	FindCandidates(ctx context.Context, query CandidateQuery) ([]MovementLine, error)

	// FindCandidatesForUpdate is FindCandidates with the returned rows locked
	FindCandidatesForUpdate(ctx context.Context, query CandidateQuery) ([]MovementLine, error)

	// Create inserts a new movement line
	Create(ctx context.Context, line *MovementLine) error

	// Save updates a movement line, checking the version it was loaded with
	Save(ctx context.Context, line *MovementLine) error

	// Delete deletes a movement line
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MatchRepository defines the interface for match persistence.
// Every mutation must be followed by a tracker recompute of the affected inbound lines
// inside the same transaction.
type MatchRepository interface {
	// CreateBatch inserts the matches of one allocation
	CreateBatch(ctx context.Context, matches []*Match) error

	// FindByInboundLine finds matches consuming the inbound line
	FindByInboundLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]Match, error)

	// FindByOutboundLine finds matches satisfying the outbound line
	FindByOutboundLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]Match, error)

	// FindByLine finds matches where the line is either side
	FindByLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]Match, error)

	// CountByLine counts matches where the line is either side
	CountByLine(ctx context.Context, tenantID, lineID uuid.UUID) (int64, error)

	// DeleteByLine deletes matches where the line is either side and returns how many were removed
	DeleteByLine(ctx context.Context, tenantID, lineID uuid.UUID) (int64, error)
}

// GoodRepository defines the interface for good persistence
type GoodRepository interface {
	// FindByID finds a good by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Good, error)

	// FindByCode finds a good by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Good, error)

	// FindAll lists goods of a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Good, error)

	// Create inserts a new good
	Create(ctx context.Context, good *Good) error
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Warehouse, error)

	// FindAll lists warehouses of a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, error)

	// Create inserts a new warehouse
	Create(ctx context.Context, warehouse *Warehouse) error
}
