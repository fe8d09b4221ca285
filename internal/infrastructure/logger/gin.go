package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware logs one entry per HTTP request and attaches the logger to the
// request context so that L(ctx) works in handlers and services.
// It expects the request ID middleware to run first.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		reqLogger := base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		cl := L(c.Request.Context())
		switch {
		case status >= 500:
			cl.Error("HTTP Request", fields...)
		case status >= 400:
			cl.Warn("HTTP Request", fields...)
		default:
			cl.Info("HTTP Request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 and logs it with its stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				WithRequestLogger(c, base).Error("Panic recovered",
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}

// WithRequestLogger returns a logger carrying the request's ids
func WithRequestLogger(c *gin.Context, base *zap.Logger) *zap.Logger {
	return (&ContextLogger{ctx: c.Request.Context(), logger: base}).enriched().With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
}
