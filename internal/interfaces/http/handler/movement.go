package handler

import (
	"time"

	appstock "github.com/erp/warehouse/internal/application/stock"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementHandler exposes the movement line workflow: draft maintenance,
// confirmation with matching, and reversal
type MovementHandler struct {
	BaseHandler
	movementService *appstock.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *appstock.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// CreateLineRequest represents a request to create a draft movement line
type CreateLineRequest struct {
	MoveID            uuid.UUID       `json:"move_id" binding:"required"`
	GoodID            uuid.UUID       `json:"good_id" binding:"required"`
	WarehouseID       uuid.UUID       `json:"warehouse_id" binding:"required"`
	Direction         string          `json:"direction" binding:"required,oneof=in out"`
	LotNumber         string          `json:"lot_number" binding:"max=100"`
	AttributeID       *uuid.UUID      `json:"attribute_id"`
	Quantity          decimal.Decimal `json:"quantity" binding:"decimal_gte0"`
	SecondaryQuantity decimal.Decimal `json:"secondary_quantity" binding:"decimal_gte0"`
	UnitCost          decimal.Decimal `json:"unit_cost" binding:"decimal_gte0"`
	ExpirationDate    *time.Time      `json:"expiration_date"`
}

// UpdateLineRequest represents a request to change a draft movement line
type UpdateLineRequest struct {
	LotNumber         string          `json:"lot_number" binding:"max=100"`
	AttributeID       *uuid.UUID      `json:"attribute_id"`
	Quantity          decimal.Decimal `json:"quantity" binding:"decimal_gte0"`
	SecondaryQuantity decimal.Decimal `json:"secondary_quantity" binding:"decimal_gte0"`
	UnitCost          decimal.Decimal `json:"unit_cost" binding:"decimal_gte0"`
	ExpirationDate    *time.Time      `json:"expiration_date"`
}

// AvailableStockQuery selects the inbound lines an outbound line could consume
type AvailableStockQuery struct {
	GoodID      string `form:"good_id" binding:"required,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"required,uuid"`
	LotNumber   string `form:"lot_number" binding:"max=100"`
	AttributeID string `form:"attribute_id" binding:"omitempty,uuid"`
}

// CreateLine creates a draft movement line
// POST /api/v1/movement-lines
func (h *MovementHandler) CreateLine(c *gin.Context) {
	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	line, err := h.movementService.CreateLine(c.Request.Context(), tenantID(c), appstock.CreateLineRequest{
		MoveID:            req.MoveID,
		GoodID:            req.GoodID,
		WarehouseID:       req.WarehouseID,
		Direction:         stock.Direction(req.Direction),
		LotNumber:         req.LotNumber,
		AttributeID:       req.AttributeID,
		Quantity:          req.Quantity,
		SecondaryQuantity: req.SecondaryQuantity,
		UnitCost:          req.UnitCost,
		ExpirationDate:    req.ExpirationDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, line)
}

// GetLine returns a movement line
// GET /api/v1/movement-lines/:id
func (h *MovementHandler) GetLine(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	line, err := h.movementService.GetLine(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// UpdateLine changes a draft movement line
// PUT /api/v1/movement-lines/:id
func (h *MovementHandler) UpdateLine(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	line, err := h.movementService.UpdateLine(c.Request.Context(), tenantID(c), id, appstock.UpdateLineRequest{
		LotNumber:         req.LotNumber,
		AttributeID:       req.AttributeID,
		Quantity:          req.Quantity,
		SecondaryQuantity: req.SecondaryQuantity,
		UnitCost:          req.UnitCost,
		ExpirationDate:    req.ExpirationDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// DeleteLine deletes a draft movement line
// DELETE /api/v1/movement-lines/:id
func (h *MovementHandler) DeleteLine(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.movementService.DeleteLine(c.Request.Context(), tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmLine confirms a draft line, matching outbound quantity against inbound stock
// POST /api/v1/movement-lines/:id/confirm
func (h *MovementHandler) ConfirmLine(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.movementService.ConfirmLine(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RevertLine returns a confirmed line to draft, releasing its matches
// POST /api/v1/movement-lines/:id/draft
func (h *MovementHandler) RevertLine(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.movementService.RevertLine(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListLineMatches lists the matches a line takes part in
// GET /api/v1/movement-lines/:id/matches
func (h *MovementHandler) ListLineMatches(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	matches, err := h.movementService.ListLineMatches(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matches)
}

// ListMoveLines lists the lines of a movement document
// GET /api/v1/moves/:id/lines
func (h *MovementHandler) ListMoveLines(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lines, err := h.movementService.ListMoveLines(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// ConfirmMove confirms every draft line of a movement document
// POST /api/v1/moves/:id/confirm
func (h *MovementHandler) ConfirmMove(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.movementService.ConfirmMove(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ResetMove returns every confirmed line of a movement document to draft
// POST /api/v1/moves/:id/draft
func (h *MovementHandler) ResetMove(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.movementService.ResetMove(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListAvailable lists the inbound lines an outbound line could consume, in allocation order
// GET /api/v1/stock/available
func (h *MovementHandler) ListAvailable(c *gin.Context) {
	var q AvailableStockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	query := appstock.AvailableQuery{
		GoodID:      uuid.MustParse(q.GoodID),
		WarehouseID: uuid.MustParse(q.WarehouseID),
	}
	if q.LotNumber != "" {
		lot := q.LotNumber
		query.LotNumber = &lot
	}
	if q.AttributeID != "" {
		attr := uuid.MustParse(q.AttributeID)
		query.AttributeID = &attr
	}

	available, err := h.movementService.ListAvailable(c.Request.Context(), tenantID(c), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, available)
}
