// Package config defines all configuration structures for the Chemalyzer
// engine.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxBodySize        int64         `mapstructure:"max_body_size"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// ConformerConfig holds 3D structure generation tunables.
type ConformerConfig struct {
	// MaxAtoms caps the hydrogen-expanded atom count eligible for embedding.
	// Larger molecules receive an analysis without a 3D block.
	MaxAtoms int `mapstructure:"max_atoms"`

	// Workers bounds the number of concurrent embedding computations.
	// Zero selects runtime.NumCPU().
	Workers int `mapstructure:"workers"`

	// Timeout is the per-molecule embedding budget, covering both the initial
	// attempt and the single retry.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxIterations bounds the force-field refinement loop per attempt.
	MaxIterations int `mapstructure:"max_iterations"`
}

// EngineConfig holds analysis pipeline tunables.
type EngineConfig struct {
	// MaxSMILESLength rejects pathological inputs before parsing.
	MaxSMILESLength int `mapstructure:"max_smiles_length"`

	// Disable3D skips conformer generation entirely; analyses are returned
	// with an empty structure block.  3D generation is on by default.
	Disable3D bool `mapstructure:"disable_3d"`

	Conformer ConformerConfig `mapstructure:"conformer"`
}

// CompoundsConfig controls the compound name library.
type CompoundsConfig struct {
	// Path points to an optional YAML overlay of name → SMILES entries merged
	// over the embedded library.  Empty means embedded entries only.
	Path string `mapstructure:"path"`

	// Watch enables hot reload of the overlay file on change.
	Watch bool `mapstructure:"watch"`
}

// RedisConfig holds Redis connection parameters for the result cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig controls the analysis result cache keyed by canonical SMILES.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Backend    string        `mapstructure:"backend"` // "memory" | "redis"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"` // memory backend only
	Redis      RedisConfig   `mapstructure:"redis"`
}

// MetricsConfig controls Prometheus metric exposure.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the engine and its HTTP
// surface.  Every component reads its settings from the relevant sub-struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Compounds CompoundsConfig `mapstructure:"compounds"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Engine
	if c.Engine.MaxSMILESLength < 1 {
		return fmt.Errorf("config: engine.max_smiles_length must be ≥ 1, got %d", c.Engine.MaxSMILESLength)
	}
	if c.Engine.Conformer.MaxAtoms < 1 {
		return fmt.Errorf("config: engine.conformer.max_atoms must be ≥ 1, got %d", c.Engine.Conformer.MaxAtoms)
	}
	if c.Engine.Conformer.Workers < 0 {
		return fmt.Errorf("config: engine.conformer.workers must be ≥ 0, got %d", c.Engine.Conformer.Workers)
	}
	if c.Engine.Conformer.MaxIterations < 1 {
		return fmt.Errorf("config: engine.conformer.max_iterations must be ≥ 1, got %d", c.Engine.Conformer.MaxIterations)
	}

	// Cache
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected memory|redis", c.Cache.Backend)
	}
	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required when cache.backend is redis")
	}
	if c.Cache.Backend == "memory" && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("config: cache.max_entries must be ≥ 1, got %d", c.Cache.MaxEntries)
	}

	// Metrics
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with \"/\"", c.Metrics.Path)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
