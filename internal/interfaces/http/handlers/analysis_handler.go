package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// AnalysisHandler serves the compound analysis, SMILES validation and
// structural comparison endpoints.
type AnalysisHandler struct {
	svc analysis.Service
	log logging.Logger
}

// NewAnalysisHandler constructs an AnalysisHandler. A nil logger is replaced
// with a no-op logger.
func NewAnalysisHandler(svc analysis.Service, log logging.Logger) *AnalysisHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisHandler{
		svc: svc,
		log: log.Named("handler"),
	}
}

// RegisterRoutes registers the analysis routes.
func (h *AnalysisHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/analyze", h.Analyze)
	router.POST("/api/validate-smiles", h.ValidateSMILES)
	router.POST("/api/compare", h.Compare)
}

// Analyze handles POST /api/analyze. The query may be a compound name, a
// SMILES string or a natural-language phrase; the response carries the full
// analysis record on success and the failure envelope otherwise.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.CodeInvalidParam,
			"request body must be JSON with a query string"))
		return
	}

	record, err := h.svc.Analyze(c.Request.Context(), req.Query)
	if err != nil {
		h.respondResolutionError(c, req.Query, err)
		return
	}

	c.JSON(http.StatusOK, types.AnalyzeResponse{
		Success: true,
		Data:    record,
	})
}

// ValidateSMILES handles POST /api/validate-smiles. The endpoint always
// answers 200 for a well-formed request; validity and diagnostics live in
// the response body.
func (h *AnalysisHandler) ValidateSMILES(c *gin.Context) {
	var req types.ValidateSMILESRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.CodeInvalidParam,
			"request body must be JSON with a smiles string"))
		return
	}

	smiles := strings.TrimSpace(req.SMILES)
	valid, validation := h.svc.ValidateSMILES(c.Request.Context(), smiles)

	c.JSON(http.StatusOK, types.ValidateSMILESResponse{
		Success:    true,
		Valid:      valid,
		SMILES:     smiles,
		Validation: validation,
	})
}

// Compare handles POST /api/compare. Both queries go through the same
// resolution pipeline as Analyze before the fingerprint comparison.
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req types.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.CodeInvalidParam,
			"request body must be JSON with query1 and query2 strings"))
		return
	}

	report, err := h.svc.Compare(c.Request.Context(), req.Query1, req.Query2)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CompareResponse{
		Success: true,
		Data:    report,
	})
}

// respondResolutionError enriches unknown-compound failures with library
// suggestions so a misspelled query comes back with actionable alternatives.
func (h *AnalysisHandler) respondResolutionError(c *gin.Context, query string, err error) {
	if apperrors.IsCode(err, apperrors.CodeUnknownCompound) {
		resp := types.NewErrorResponse(messageForError(err)).
			WithSuggestions(h.svc.Suggest(query))
		c.JSON(http.StatusNotFound, resp)
		return
	}
	respondError(c, err)
}
