// Command apiserver runs the chemalyzer HTTP API: compound resolution,
// SMILES parsing, descriptor calculation, drug-likeness rules, ADMET
// heuristics, 3D conformer generation and structural comparison.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/domain/compound"
	"github.com/moleculab/chemalyzer/internal/domain/conformer"
	"github.com/moleculab/chemalyzer/internal/infrastructure/cache"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/moleculab/chemalyzer/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment variables only)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logging.SetDefault(logger)

	logger.Info("starting chemalyzer API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("built", buildDate),
		logging.Int("port", cfg.Server.Port),
	)

	// Compound library with optional overlay and hot reload.
	library := compound.NewLibrary(logger)
	if path := cfg.Compounds.Path; path != "" {
		if err := library.LoadOverlay(path); err != nil {
			logger.Warn("compound overlay not loaded",
				logging.String("path", path), logging.Err(err))
		}
		if cfg.Compounds.Watch {
			watcher, err := compound.NewWatcher(library, path, logger)
			if err != nil {
				logger.Warn("compound overlay watch disabled", logging.Err(err))
			} else {
				defer watcher.Close()
			}
		}
	}

	// Result cache: memory, redis, or disabled per configuration.
	store, err := cache.New(cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer store.Close()

	// Metrics registry and engine instruments.
	metrics := prometheus.NewNopEngineMetrics()
	routerCfg := httpserver.RouterConfig{
		Version: version,
		Server:  cfg.Server,
		Logger:  logger,
	}
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
			Namespace:            "chemalyzer",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics = prometheus.NewEngineMetrics(collector)
		routerCfg.Metrics = metrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	// Analysis application service.
	service := analysis.NewService(cfg.Engine, analysis.Dependencies{
		Library: library,
		Conformer: conformer.NewGenerator(conformer.Options{
			MaxAtoms:      cfg.Engine.Conformer.MaxAtoms,
			MaxIterations: cfg.Engine.Conformer.MaxIterations,
			Workers:       cfg.Engine.Conformer.Workers,
			Timeout:       cfg.Engine.Conformer.Timeout,
		}, logger),
		Cache:   store,
		Metrics: metrics,
		Logger:  logger,
	})
	routerCfg.Service = service

	router := httpserver.NewRouter(routerCfg)
	server := httpserver.NewServer(cfg.Server, router, logger)

	// Hot-reload the log level on config file changes.
	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if setter, ok := logger.(logging.LevelSetter); ok {
				setter.SetLevel(next.Log.Level)
				logger.Info("log level updated", logging.String("level", next.Log.Level))
			}
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// loadConfig reads the file at path, or builds configuration from
// CHEMALYZER_* environment variables when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
