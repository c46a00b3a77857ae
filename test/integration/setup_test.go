// Package integration exercises the analysis engine end to end: the
// embedded compound library, the application service and the full gin
// route tree run in-process behind an httptest server, and every request
// travels through the Go SDK exactly the way an external caller's would.
package integration

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/domain/compound"
	"github.com/moleculab/chemalyzer/internal/infrastructure/cache"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/moleculab/chemalyzer/internal/interfaces/http"
	"github.com/moleculab/chemalyzer/pkg/client"
)

const testVersion = "integration-test"

// testEnv bundles one fully wired engine instance with an SDK client
// pointed at it.  Everything is in-process; Close is handled by t.Cleanup.
type testEnv struct {
	Server  *httptest.Server
	Client  *client.Client
	Service analysis.Service
}

type envSettings struct {
	enable3D  bool
	metrics   bool
	conformer *config.ConformerConfig
}

type envOption func(*envSettings)

// with3D enables conformer generation.  The default environment runs with
// 3D disabled so descriptor assertions stay fast.
func with3D() envOption {
	return func(s *envSettings) { s.enable3D = true }
}

// withMetrics registers a Prometheus collector and mounts its scrape
// endpoint on the test router.
func withMetrics() envOption {
	return func(s *envSettings) { s.metrics = true }
}

// withConformer overrides the conformer tunables, implying with3D.
func withConformer(cfg config.ConformerConfig) envOption {
	return func(s *envSettings) {
		s.enable3D = true
		s.conformer = &cfg
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	var settings envSettings
	for _, opt := range opts {
		opt(&settings)
	}

	log := logging.NewNopLogger()
	library := compound.NewLibrary(log)

	engineCfg := config.EngineConfig{
		MaxSMILESLength: 500,
		Disable3D:       !settings.enable3D,
		Conformer: config.ConformerConfig{
			MaxAtoms:      80,
			MaxIterations: 200,
			Workers:       2,
			Timeout:       10 * time.Second,
		},
	}
	if settings.conformer != nil {
		engineCfg.Conformer = *settings.conformer
	}

	deps := analysis.Dependencies{
		Library: library,
		Cache:   cache.NewMemory(256, time.Minute),
		Logger:  log,
	}

	routerCfg := httpserver.RouterConfig{
		Version: testVersion,
		Server: config.ServerConfig{
			Mode:        "test",
			MaxBodySize: 1 << 20,
		},
		Logger: log,
	}

	if settings.metrics {
		collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
			Namespace: "chemalyzer",
		}, log)
		require.NoError(t, err)
		metrics := prometheus.NewEngineMetrics(collector)
		deps.Metrics = metrics
		routerCfg.Metrics = metrics
		routerCfg.MetricsHandler = collector.Handler()
	}

	svc := analysis.NewService(engineCfg, deps)
	routerCfg.Service = svc

	server := httptest.NewServer(httpserver.NewRouter(routerCfg))
	t.Cleanup(server.Close)

	sdk, err := client.NewClient(server.URL,
		client.WithTimeout(30*time.Second),
		client.WithRetryMax(0),
	)
	require.NoError(t, err)

	return &testEnv{
		Server:  server,
		Client:  sdk,
		Service: svc,
	}
}
