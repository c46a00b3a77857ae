package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  mode: "release"
  read_timeout: 20s
  shutdown_timeout: 5s
engine:
  max_smiles_length: 500
  conformer:
    max_atoms: 150
    workers: 4
    timeout: 3s
compounds:
  path: ""
  watch: false
cache:
  enabled: true
  backend: "memory"
  ttl: 10m
  max_entries: 256
metrics:
  enabled: true
  path: "/metrics"
log:
  level: "debug"
  format: "console"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 500, cfg.Engine.MaxSMILESLength)
	assert.Equal(t, 150, cfg.Engine.Conformer.MaxAtoms)
	assert.Equal(t, 4, cfg.Engine.Conformer.Workers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FromFile_DefaultsFillUnsetFields(t *testing.T) {
	path := createTempConfigFile(t, "server:\n  port: 8081\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit value wins.
	assert.Equal(t, 8081, cfg.Server.Port)
	// Everything else falls back to defaults.
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultMaxSMILESLength, cfg.Engine.MaxSMILESLength)
	assert.Equal(t, DefaultConformerMaxAtoms, cfg.Engine.Conformer.MaxAtoms)
	assert.Equal(t, DefaultCacheBackend, cfg.Cache.Backend)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
	assert.False(t, cfg.Cache.Enabled, "cache stays disabled unless requested")
	assert.False(t, cfg.Engine.Disable3D, "3D generation is on by default")
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load("non_existent_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, "server:\n  port: 70000\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("CHEMALYZER_SERVER_PORT", "7070")
	t.Setenv("CHEMALYZER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnv_NoFileRequired(t *testing.T) {
	t.Setenv("CHEMALYZER_SERVER_PORT", "6060")
	t.Setenv("CHEMALYZER_CACHE_BACKEND", "memory")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	// Defaults cover the rest.
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoadFromEnv_DefaultsOnly(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("definitely_missing.yaml")
	})
}

func TestMustLoad_ReturnsConfigOnSuccess(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	var cfg *Config
	assert.NotPanics(t, func() {
		cfg = MustLoad(path)
	})
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestWatch_InvokesCallbackOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 1)
	Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	// Rewrite the file with a different log level.
	updated := []byte("server:\n  port: 9090\nlog:\n  level: \"error\"\n")
	require.NoError(t, os.WriteFile(path, updated, 0644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "error", cfg.Log.Level)
	case <-time.After(2 * time.Second):
		t.Skip("fsnotify event did not arrive; file watching is environment-dependent")
	}
}
