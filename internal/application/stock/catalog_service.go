package stock

import (
	"context"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the goods and warehouses movement lines refer to
type CatalogService struct {
	goods      stock.GoodRepository
	warehouses stock.WarehouseRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(goods stock.GoodRepository, warehouses stock.WarehouseRepository) *CatalogService {
	return &CatalogService{goods: goods, warehouses: warehouses}
}

// CreateGood creates a good
func (s *CatalogService) CreateGood(ctx context.Context, tenantID uuid.UUID, req CreateGoodRequest) (*GoodResponse, error) {
	good, err := stock.NewGood(tenantID, req.Code, req.Name, req.MatchingMode)
	if err != nil {
		return nil, err
	}
	if err := s.goods.Create(ctx, good); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("good created",
		zap.String("good_id", good.ID.String()),
		zap.String("code", good.Code),
		zap.String("matching_mode", string(good.MatchingMode)),
	)
	resp := ToGoodResponse(good)
	return &resp, nil
}

// GetGood returns a good by ID
func (s *CatalogService) GetGood(ctx context.Context, tenantID, id uuid.UUID) (*GoodResponse, error) {
	good, err := s.goods.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToGoodResponse(good)
	return &resp, nil
}

// ListGoods lists goods of a tenant
func (s *CatalogService) ListGoods(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodResponse, error) {
	goods, err := s.goods.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]GoodResponse, 0, len(goods))
	for i := range goods {
		out = append(out, ToGoodResponse(&goods[i]))
	}
	return out, nil
}

// CreateWarehouse creates a warehouse
func (s *CatalogService) CreateWarehouse(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := stock.NewWarehouse(tenantID, req.Code, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	if err := s.warehouses.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code),
		zap.String("type", string(warehouse.Type)),
	)
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// GetWarehouse returns a warehouse by ID
func (s *CatalogService) GetWarehouse(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouses.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// ListWarehouses lists warehouses of a tenant
func (s *CatalogService) ListWarehouses(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouses.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, ToWarehouseResponse(&warehouses[i]))
	}
	return out, nil
}
