// Package config provides configuration loading, defaults, and validation for
// the Chemalyzer engine.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "CHEMALYZER"

// envBoundKeys lists every leaf configuration key.  Viper's Unmarshal only
// consults environment variables for keys it already knows about, so each key
// is bound explicitly; this makes CHEMALYZER_* overrides work even when the
// key is absent from the config file.
var envBoundKeys = []string{
	"server.port",
	"server.mode",
	"server.read_timeout",
	"server.write_timeout",
	"server.max_body_size",
	"server.shutdown_timeout",
	"server.cors_allowed_origins",
	"engine.max_smiles_length",
	"engine.disable_3d",
	"engine.conformer.max_atoms",
	"engine.conformer.workers",
	"engine.conformer.timeout",
	"engine.conformer.max_iterations",
	"compounds.path",
	"compounds.watch",
	"cache.enabled",
	"cache.backend",
	"cache.ttl",
	"cache.max_entries",
	"cache.redis.addr",
	"cache.redis.password",
	"cache.redis.db",
	"cache.redis.pool_size",
	"cache.redis.min_idle_conns",
	"cache.redis.dial_timeout",
	"cache.redis.read_timeout",
	"cache.redis.write_timeout",
	"cache.redis.key_prefix",
	"metrics.enabled",
	"metrics.path",
	"log.level",
	"log.format",
	"log.output_paths",
	"log.error_output_paths",
}

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, CHEMALYZER_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like "server.port"
// resolve to "CHEMALYZER_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envBoundKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any CHEMALYZER_* environment
// variable overrides, applies engine defaults for unset fields, and validates
// the result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CHEMALYZER_* environment
// variables, with no config file required.  This is the preferred loading
// strategy for containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	CHEMALYZER_<SECTION>_<FIELD>   e.g.  CHEMALYZER_SERVER_PORT, CHEMALYZER_CACHE_BACKEND
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level; callers are
// responsible for applying only the safe subset of changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// Config change produced an invalid config; skip the callback to
			// prevent the application from entering a broken state.
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
