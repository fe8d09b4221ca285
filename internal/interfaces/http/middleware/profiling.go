package middleware

import (
	"context"
	"strings"

	"github.com/erp/warehouse/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Profiling labels the profiling samples of each request with its route pattern,
// method, resource and tenant. Requests to skipPaths are not labelled.
func Profiling(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelResource: resourceFromRoute(route),
		}
		if tenantID := GetTenantID(c); tenantID != uuid.Nil {
			labels[telemetry.ProfilingLabelTenantID] = tenantID.String()
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first segment after /api/<version>,
// e.g. "/api/v1/movement-lines/:id/confirm" -> "movement-lines"
func resourceFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		return parts[2]
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
