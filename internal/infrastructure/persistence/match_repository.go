package persistence

import (
	"context"

	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// CreateBatch inserts the matches of one allocation
func (r *GormMatchRepository) CreateBatch(ctx context.Context, matches []*stock.Match) error {
	if len(matches) == 0 {
		return nil
	}
	rows := make([]*models.MatchModel, len(matches))
	for i, m := range matches {
		rows[i] = models.MatchModelFromDomain(m)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// FindByInboundLine finds matches consuming the inbound line
func (r *GormMatchRepository) FindByInboundLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]stock.Match, error) {
	return r.find(ctx, "tenant_id = ? AND inbound_line_id = ?", tenantID, lineID)
}

// FindByOutboundLine finds matches satisfying the outbound line
func (r *GormMatchRepository) FindByOutboundLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]stock.Match, error) {
	return r.find(ctx, "tenant_id = ? AND outbound_line_id = ?", tenantID, lineID)
}

// FindByLine finds matches where the line is either side
func (r *GormMatchRepository) FindByLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]stock.Match, error) {
	return r.find(ctx, "tenant_id = ? AND (inbound_line_id = ? OR outbound_line_id = ?)", tenantID, lineID, lineID)
}

func (r *GormMatchRepository) find(ctx context.Context, where string, args ...any) ([]stock.Match, error) {
	var rows []models.MatchModel
	if err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	matches := make([]stock.Match, len(rows))
	for i := range rows {
		matches[i] = *rows[i].ToDomain()
	}
	return matches, nil
}

// CountByLine counts matches where the line is either side
func (r *GormMatchRepository) CountByLine(ctx context.Context, tenantID, lineID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MatchModel{}).
		Where("tenant_id = ? AND (inbound_line_id = ? OR outbound_line_id = ?)", tenantID, lineID, lineID).
		Count(&count).Error
	return count, err
}

// DeleteByLine deletes matches where the line is either side and returns how many were removed
func (r *GormMatchRepository) DeleteByLine(ctx context.Context, tenantID, lineID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.MatchModel{},
		"tenant_id = ? AND (inbound_line_id = ? OR outbound_line_id = ?)", tenantID, lineID, lineID)
	return result.RowsAffected, result.Error
}

// Ensure GormMatchRepository implements MatchRepository
var _ stock.MatchRepository = (*GormMatchRepository)(nil)
