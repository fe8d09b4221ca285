// Package middleware provides the gin middleware of the stock API.
package middleware

import (
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in and out
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key of the request ID
	RequestIDKey = "request_id"
	// maxRequestIDLength bounds client supplied ids
	maxRequestIDLength = 128
)

// RequestID reuses the caller's X-Request-ID or generates one, and stores it in both
// the gin and the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
