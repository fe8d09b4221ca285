package middleware

import (
	"net/http"

	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects bodies larger than maxBytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
