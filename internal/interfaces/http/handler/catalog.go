package handler

import (
	appstock "github.com/erp/warehouse/internal/application/stock"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles the goods and warehouses movement lines refer to
type CatalogHandler struct {
	BaseHandler
	catalogService *appstock.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *appstock.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateGoodRequest represents a request to create a good
type CreateGoodRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	MatchingMode string `json:"matching_mode" binding:"omitempty,oneof=none plain lot"`
}

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
	Type string `json:"type" binding:"omitempty,oneof=stock supplier customer production inventory"`
}

// ListGoodsQuery adds the matching mode filter to the list parameters
type ListGoodsQuery struct {
	dto.ListRequest
	MatchingMode string `form:"matching_mode" binding:"omitempty,oneof=none plain lot"`
}

// CreateGood creates a good
// POST /api/v1/goods
func (h *CatalogHandler) CreateGood(c *gin.Context) {
	var req CreateGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	good, err := h.catalogService.CreateGood(c.Request.Context(), tenantID(c), appstock.CreateGoodRequest{
		Code:         req.Code,
		Name:         req.Name,
		MatchingMode: stock.MatchingMode(req.MatchingMode),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, good)
}

// GetGood returns a good
// GET /api/v1/goods/:id
func (h *CatalogHandler) GetGood(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	good, err := h.catalogService.GetGood(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, good)
}

// ListGoods lists goods
// GET /api/v1/goods
func (h *CatalogHandler) ListGoods(c *gin.Context) {
	var q ListGoodsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter := filterFrom(q.ListRequest)
	if q.MatchingMode != "" {
		filter.Filters["matching_mode"] = q.MatchingMode
	}

	goods, err := h.catalogService.ListGoods(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, goods, len(goods), filter.Page, filter.PageSize)
}

// CreateWarehouse creates a warehouse
// POST /api/v1/warehouses
func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	warehouse, err := h.catalogService.CreateWarehouse(c.Request.Context(), tenantID(c), appstock.CreateWarehouseRequest{
		Code: req.Code,
		Name: req.Name,
		Type: stock.WarehouseType(req.Type),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetWarehouse returns a warehouse
// GET /api/v1/warehouses/:id
func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.catalogService.GetWarehouse(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// ListWarehouses lists warehouses
// GET /api/v1/warehouses
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	var q dto.ListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter := filterFrom(q)

	warehouses, err := h.catalogService.ListWarehouses(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, len(warehouses), filter.Page, filter.PageSize)
}
