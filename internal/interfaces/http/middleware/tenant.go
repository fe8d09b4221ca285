package middleware

import (
	"net/http"

	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TenantHeader selects the company a request acts for
	TenantHeader = "X-Tenant-ID"
	// TenantIDKey is the gin context key of the parsed tenant uuid.UUID
	TenantIDKey = "tenant_id"
)

// Tenant resolves the tenant from X-Tenant-ID, falling back to defaultTenant.
// A malformed header is rejected rather than silently replaced.
func Tenant(defaultTenant uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := defaultTenant
		if header := c.GetHeader(TenantHeader); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					dto.ErrCodeBadTenant, "X-Tenant-ID must be a UUID", GetRequestID(c)))
				return
			}
			tenantID = parsed
		}

		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		c.Next()
	}
}

// GetTenantID returns the tenant set by Tenant
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
