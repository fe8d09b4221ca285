package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves liveness and build information
type SystemHandler struct {
	BaseHandler
	db        Pinger
	name      string
	version   string
	ordering  string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, name, version, ordering string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		name:      name,
		version:   version,
		ordering:  ordering,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Ordering  string `json:"ordering"`
	Uptime    string `json:"uptime"`
}

// Health reports liveness and database reachability
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: "ok",
	}
	if err := h.db.Ping(); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSystemInfo returns version, active ordering policy and uptime
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Ordering:  h.ordering,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// PingFunc adapts a function to Pinger
type PingFunc func() error

// Ping calls f
func (f PingFunc) Ping() error { return f() }

