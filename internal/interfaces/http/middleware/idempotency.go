package middleware

import (
	"net/http"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry confirm and revert calls safely
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 200

// Idempotency rejects a repeated Idempotency-Key on the same route with 409.
// Requests without the header pass through. A request that does not succeed releases
// its key so the client can retry it. Store failures are logged and let the request
// through, since the transactional state checks still refuse double application.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		scoped := GetTenantID(c).String() + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		fresh, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			logger.L(ctx).Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				shared.CodeDuplicateRequest, shared.ErrDuplicateRequest.Message, GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Forget(ctx, scoped); err != nil {
				logger.L(ctx).Warn("failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
