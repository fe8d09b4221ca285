package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGoodRepository implements GoodRepository using GORM
type GormGoodRepository struct {
	db *gorm.DB
}

// NewGormGoodRepository creates a new GormGoodRepository
func NewGormGoodRepository(db *gorm.DB) *GormGoodRepository {
	return &GormGoodRepository{db: db}
}

// FindByID finds a good by ID within a tenant
func (r *GormGoodRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.Good, error) {
	var model models.GoodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a good by its code within a tenant
func (r *GormGoodRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*stock.Good, error) {
	var model models.GoodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists goods of a tenant
func (r *GormGoodRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Good, error) {
	var rows []models.GoodModel
	query := applyPaging(
		r.db.WithContext(ctx).Model(&models.GoodModel{}).Where("tenant_id = ?", tenantID),
		filter, GoodSortFields, "matching_mode",
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	goods := make([]stock.Good, len(rows))
	for i := range rows {
		goods[i] = *rows[i].ToDomain()
	}
	return goods, nil
}

// Create inserts a new good; codes are unique per tenant
func (r *GormGoodRepository) Create(ctx context.Context, good *stock.Good) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GoodModel{}).
		Where("tenant_id = ? AND code = ?", good.TenantID, good.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError(shared.CodeAlreadyExists, "good code "+good.Code+" already exists")
	}
	return r.db.WithContext(ctx).Create(models.GoodModelFromDomain(good)).Error
}

// Ensure GormGoodRepository implements GoodRepository
var _ stock.GoodRepository = (*GormGoodRepository)(nil)
