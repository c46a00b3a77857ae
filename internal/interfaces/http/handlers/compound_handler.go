package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// CompoundHandler serves the compound library listing endpoint.
type CompoundHandler struct {
	svc analysis.Service
}

// NewCompoundHandler constructs a CompoundHandler.
func NewCompoundHandler(svc analysis.Service) *CompoundHandler {
	return &CompoundHandler{svc: svc}
}

// RegisterRoutes registers the compound routes.
func (h *CompoundHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/compounds", h.List)
}

// List handles GET /api/compounds, returning the sorted names the resolver
// recognizes directly.
func (h *CompoundHandler) List(c *gin.Context) {
	names := h.svc.Compounds()
	c.JSON(http.StatusOK, types.CompoundsResponse{
		Success:   true,
		Compounds: names,
		Count:     len(names),
	})
}
