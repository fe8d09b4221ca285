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

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID within a tenant
func (r *GormWarehouseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.Warehouse, error) {
	var model models.WarehouseModel
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

// FindByCode finds a warehouse by its code within a tenant
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*stock.Warehouse, error) {
	var model models.WarehouseModel
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

// FindAll lists warehouses of a tenant
func (r *GormWarehouseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Warehouse, error) {
	var rows []models.WarehouseModel
	query := applyPaging(
		r.db.WithContext(ctx).Model(&models.WarehouseModel{}).Where("tenant_id = ?", tenantID),
		filter, WarehouseSortFields, "type",
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	warehouses := make([]stock.Warehouse, len(rows))
	for i := range rows {
		warehouses[i] = *rows[i].ToDomain()
	}
	return warehouses, nil
}

// Create inserts a new warehouse; codes are unique per tenant
func (r *GormWarehouseRepository) Create(ctx context.Context, warehouse *stock.Warehouse) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).
		Where("tenant_id = ? AND code = ?", warehouse.TenantID, warehouse.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError(shared.CodeAlreadyExists, "warehouse code "+warehouse.Code+" already exists")
	}
	return r.db.WithContext(ctx).Create(models.WarehouseModelFromDomain(warehouse)).Error
}

// Ensure GormWarehouseRepository implements WarehouseRepository
var _ stock.WarehouseRepository = (*GormWarehouseRepository)(nil)
