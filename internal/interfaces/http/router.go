// Package http assembles the HTTP interface of the analysis engine: the
// gin route tree, the middleware chain and the server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
	"github.com/moleculab/chemalyzer/internal/interfaces/http/handlers"
	"github.com/moleculab/chemalyzer/internal/interfaces/http/middleware"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// RouterConfig aggregates everything route registration needs. Nil
// dependencies disable their routes, so a partially wired config still
// yields a usable router.
type RouterConfig struct {
	// Service backs the analysis, validation, comparison, compound and
	// health endpoints.
	Service analysis.Service

	// Version is reported by the health endpoint.
	Version string

	// Server supplies the gin mode, body size limit and CORS origins.
	Server config.ServerConfig

	// Metrics receives per-request measurements when non-nil.
	Metrics *prometheus.EngineMetrics

	// MetricsHandler, when non-nil, is mounted at MetricsPath (default
	// /metrics) for Prometheus scrapes.
	MetricsHandler http.Handler

	// MetricsPath overrides the scrape endpoint path.
	MetricsPath string

	// Logger receives request logs. Nil selects a no-op logger.
	Logger logging.Logger
}

// NewRouter constructs the complete route tree from the given configuration:
// global middleware first, then the API endpoints, then the scrape endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Server.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogging(log, middleware.DefaultLoggingConfig()))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.Server.MaxBodySize > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodySize))
	}
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowedOrigins = cfg.Server.CORSAllowedOrigins
		router.Use(middleware.CORS(corsConfig))
	}

	registerAnalysisRoutes(router, cfg, log)
	registerCompoundRoutes(router, cfg)
	registerHealthRoutes(router, cfg)
	registerMetricsRoutes(router, cfg)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(
			apperrors.DefaultMessageForCode(apperrors.CodeNotFound)))
	})

	return router
}

func registerAnalysisRoutes(router *gin.Engine, cfg RouterConfig, log logging.Logger) {
	if cfg.Service == nil {
		return
	}
	handlers.NewAnalysisHandler(cfg.Service, log).RegisterRoutes(router)
}

func registerCompoundRoutes(router *gin.Engine, cfg RouterConfig) {
	if cfg.Service == nil {
		return
	}
	handlers.NewCompoundHandler(cfg.Service).RegisterRoutes(router)
}

func registerHealthRoutes(router *gin.Engine, cfg RouterConfig) {
	if cfg.Service == nil {
		return
	}
	handlers.NewHealthHandler(cfg.Service, cfg.Version).RegisterRoutes(router)
}

func registerMetricsRoutes(router *gin.Engine, cfg RouterConfig) {
	if cfg.MetricsHandler == nil {
		return
	}
	path := cfg.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	router.GET(path, gin.WrapH(cfg.MetricsHandler))
}
