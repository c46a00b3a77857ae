package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

func TestCompoundHandler_List(t *testing.T) {
	router := gin.New()
	NewCompoundHandler(newHandlerService(t)).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/compounds", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.CompoundsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, len(resp.Compounds), resp.Count)
	assert.GreaterOrEqual(t, resp.Count, 35)
	assert.Contains(t, resp.Compounds, "aspirin")
	assert.Contains(t, resp.Compounds, "caffeine")
}

func TestCompoundHandler_ListIsSorted(t *testing.T) {
	router := gin.New()
	NewCompoundHandler(newHandlerService(t)).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/compounds", nil))

	var resp types.CompoundsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.IsNonDecreasing(t, resp.Compounds)
}
