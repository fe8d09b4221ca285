package handler

import (
	"net/http"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/erp/warehouse/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, count, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, count, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// ValidationError sends a 400 response listing the invalid fields of a bound request.
// Errors that are not validator errors (malformed JSON, bad decimals) carry their message.
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	details := middleware.ValidationDetails(err)
	message := "Request validation failed"
	if len(details) == 0 {
		message = err.Error()
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, middleware.GetRequestID(c), details))
}

// HandleError converts service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	status, body := dto.FromError(err, middleware.GetRequestID(c))
	c.JSON(status, body)
}

// tenantID returns the tenant resolved by the tenant middleware
func tenantID(c *gin.Context) uuid.UUID {
	return middleware.GetTenantID(c)
}

// uuidParam parses a path parameter as a UUID, writing a 400 when it is malformed
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// filterFrom converts list query parameters to a repository filter
func filterFrom(req dto.ListRequest) shared.Filter {
	f := shared.DefaultFilter()
	if req.Page > 0 {
		f.Page = req.Page
	}
	if req.PageSize > 0 {
		f.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		f.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		f.OrderDir = req.OrderDir
	}
	return f
}
