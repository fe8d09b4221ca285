package persistence

import (
	"context"
	"errors"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// candidateOrder is the confirmation order the FIFO policy walks
const candidateOrder = "confirmed_at ASC, created_at ASC, id ASC"

// GormMovementLineRepository implements MovementLineRepository using GORM
type GormMovementLineRepository struct {
	db *gorm.DB
}

// NewGormMovementLineRepository creates a new GormMovementLineRepository
func NewGormMovementLineRepository(db *gorm.DB) *GormMovementLineRepository {
	return &GormMovementLineRepository{db: db}
}

// FindByID finds a movement line by ID within a tenant
func (r *GormMovementLineRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.MovementLine, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a movement line and locks its row until the transaction ends
func (r *GormMovementLineRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*stock.MovementLine, error) {
	return r.findOne(r.lockForUpdate(r.db.WithContext(ctx)), tenantID, id)
}

func (r *GormMovementLineRepository) findOne(query *gorm.DB, tenantID, id uuid.UUID) (*stock.MovementLine, error) {
	var model models.MovementLineModel
	if err := query.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate finds the given lines and locks them in candidate order
func (r *GormMovementLineRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]stock.MovementLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.MovementLineModel
	if err := r.lockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order(candidateOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, shared.ErrNotFound
	}
	return toDomainLines(rows), nil
}

// FindByMove finds all lines of a movement document
func (r *GormMovementLineRepository) FindByMove(ctx context.Context, tenantID, moveID uuid.UUID) ([]stock.MovementLine, error) {
	var rows []models.MovementLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND move_id = ?", tenantID, moveID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLines(rows), nil
}

// FindCandidates finds confirmed inbound lines with remaining quantity in confirmation order
func (r *GormMovementLineRepository) FindCandidates(ctx context.Context, query stock.CandidateQuery) ([]stock.MovementLine, error) {
	return r.findCandidates(r.db.WithContext(ctx), query)
}

// FindCandidatesForUpdate is FindCandidates with the returned rows locked, so two
// concurrent outbound confirmations cannot consume the same remaining quantity
func (r *GormMovementLineRepository) FindCandidatesForUpdate(ctx context.Context, query stock.CandidateQuery) ([]stock.MovementLine, error) {
	return r.findCandidates(r.lockForUpdate(r.db.WithContext(ctx)), query)
}

func (r *GormMovementLineRepository) findCandidates(db *gorm.DB, query stock.CandidateQuery) ([]stock.MovementLine, error) {
	q := db.Where(
		"tenant_id = ? AND good_id = ? AND warehouse_id = ? AND direction = ? AND state = ? AND remaining_quantity > 0",
		query.TenantID, query.GoodID, query.WarehouseID, string(stock.DirectionIn), string(stock.LineStateDone),
	)
	if query.LotNumber != nil {
		q = q.Where("lot_number = ?", *query.LotNumber)
	}
	if query.AttributeID != nil {
		q = q.Where("attribute_id = ?", *query.AttributeID)
	}

	var rows []models.MovementLineModel
	if err := q.Order(candidateOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLines(rows), nil
}

func (r *GormMovementLineRepository) lockForUpdate(db *gorm.DB) *gorm.DB {
	if supportsRowLocks(r.db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Create inserts a new movement line
func (r *GormMovementLineRepository) Create(ctx context.Context, line *stock.MovementLine) error {
	return r.db.WithContext(ctx).Create(models.MovementLineModelFromDomain(line)).Error
}

// Save updates a movement line, checking the version it was loaded with.
// On success the line carries the new version.
func (r *GormMovementLineRepository) Save(ctx context.Context, line *stock.MovementLine) error {
	model := models.MovementLineModelFromDomain(line)
	model.Version = line.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.MovementLineModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", line.TenantID, line.ID, line.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	line.IncrementVersion()
	return nil
}

// Delete deletes a movement line
func (r *GormMovementLineRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MovementLineModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainLines(rows []models.MovementLineModel) []stock.MovementLine {
	lines := make([]stock.MovementLine, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines
}

// Ensure GormMovementLineRepository implements MovementLineRepository
var _ stock.MovementLineRepository = (*GormMovementLineRepository)(nil)
