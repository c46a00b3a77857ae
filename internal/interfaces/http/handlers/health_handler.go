package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// HealthHandler serves the health probe endpoint.
type HealthHandler struct {
	svc     analysis.Service
	version string
}

// NewHealthHandler constructs a HealthHandler reporting the given version.
func NewHealthHandler(svc analysis.Service, version string) *HealthHandler {
	return &HealthHandler{svc: svc, version: version}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/health", h.Health)
}

// Health handles GET /api/health. The probe always answers 200 while the
// process serves requests; readiness degradation shows up in the body, not
// the status code.
func (h *HealthHandler) Health(c *gin.Context) {
	ready := h.svc.Ready()

	status := "healthy"
	message := "molecular analysis engine is running"
	if !ready {
		status = "degraded"
		message = "compound library is empty; name resolution is unavailable"
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:             status,
		Message:            message,
		EngineReady:        ready,
		CompoundsAvailable: h.svc.CompoundCount(),
		Version:            h.version,
	})
}
