package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

func newRouterService(t *testing.T) analysis.Service {
	t.Helper()
	cfg := config.EngineConfig{
		MaxSMILESLength: 500,
		Disable3D:       true,
	}
	return analysis.NewService(cfg, analysis.Dependencies{})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		Service: newRouterService(t),
		Version: "1.0.0",
	})
}

func serveJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, r)
	return w
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	router := newTestRouter(t)

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/health", ""},
		{http.MethodPost, "/api/analyze", `{"query":"ethanol"}`},
		{http.MethodPost, "/api/validate-smiles", `{"smiles":"CCO"}`},
		{http.MethodGet, "/api/compounds", ""},
		{http.MethodPost, "/api/compare", `{"query1":"ethanol","query2":"methanol"}`},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := serveJSON(router, rt.method, rt.path, rt.body)
			assert.NotEqual(t, http.StatusNotFound, w.Code,
				"route %s %s should be registered", rt.method, rt.path)
		})
	}
}

func TestNewRouter_AnalyzeRoundtrip(t *testing.T) {
	router := newTestRouter(t)

	w := serveJSON(router, http.MethodPost, "/api/analyze", `{"query":"aspirin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp types.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "C9H8O4", resp.Data.Formula)
	assert.Equal(t, "CC(=O)OC1=CC=CC=C1C(=O)O", resp.Data.SMILES)
}

func TestNewRouter_FailureEnvelopeShape(t *testing.T) {
	router := newTestRouter(t)

	w := serveJSON(router, http.MethodPost, "/api/analyze", `{"query":"C((("}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	_, isString := resp["error"].(string)
	assert.True(t, isString, "error field must be a plain string")
	assert.NotContains(t, resp, "data")
}

func TestNewRouter_UnknownCompoundGetsSuggestions(t *testing.T) {
	router := newTestRouter(t)

	w := serveJSON(router, http.MethodPost, "/api/analyze", `{"query":"kryptonite"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["suggestions"])
}

func TestNewRouter_NoRouteAnswersWithEnvelope(t *testing.T) {
	router := newTestRouter(t)

	w := serveJSON(router, http.MethodGet, "/api/nonsense", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "resource not found", resp["error"])
}

func TestNewRouter_NilServiceNoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		router := NewRouter(RouterConfig{})
		w := serveJSON(router, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
		Namespace: "test",
		Subsystem: "router",
	}, nil)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Service:        newRouterService(t),
		Metrics:        prometheus.NewEngineMetrics(collector),
		MetricsHandler: collector.Handler(),
	})

	w := serveJSON(router, http.MethodPost, "/api/analyze", `{"query":"benzene"}`)
	require.Equal(t, http.StatusOK, w.Code)

	scrape := serveJSON(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), "test_router_http_requests_total")
	assert.Contains(t, scrape.Body.String(), `path="/api/analyze"`)
}

func TestNewRouter_CORSHeadersApplied(t *testing.T) {
	router := NewRouter(RouterConfig{
		Service: newRouterService(t),
		Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/compounds", nil)
	r.Header.Set("Origin", "https://viewer.example.com")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_BodySizeLimitEnforced(t *testing.T) {
	router := NewRouter(RouterConfig{
		Service: newRouterService(t),
		Server:  config.ServerConfig{MaxBodySize: 64},
	})

	huge := `{"query":"` + strings.Repeat("C", 4096) + `"}`
	w := serveJSON(router, http.MethodPost, "/api/analyze", huge)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}
