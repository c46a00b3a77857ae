package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(maxBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(BodySizeLimit(maxBytes))
	router.POST("/api/analyze", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodySizeLimit_UnderLimit(t *testing.T) {
	router := newBodyLimitRouter(64)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"query":"aspirin"}`))
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodySizeLimit_OverLimit(t *testing.T) {
	router := newBodyLimitRouter(16)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(strings.Repeat("C", 1024)))
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimit_Disabled(t *testing.T) {
	router := newBodyLimitRouter(0)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(strings.Repeat("C", 1<<20)))
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
