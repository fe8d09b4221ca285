package middleware

import (
	"net/http"

	"github.com/erp/warehouse/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts the server span of each request with otelgin
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}

// SpanAttributes enriches the span started by Tracing; it runs inside it
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(
				attribute.String("request_id", GetRequestID(c)),
				attribute.String(telemetry.SpanAttrTenantID, GetTenantID(c).String()),
			)
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError && span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
