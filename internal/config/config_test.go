package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate, for mutation in tests.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_ServerPortOutOfRange(t *testing.T) {
	cases := []int{0, -1, 65536, 100000}
	for _, port := range cases {
		cfg := validConfig()
		cfg.Server.Port = port
		err := cfg.Validate()
		require.Error(t, err, "port %d should be rejected", port)
		assert.Contains(t, err.Error(), "server.port")
	}
}

func TestValidate_ServerModeInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = "production"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestValidate_EngineLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.MaxSMILESLength = 0
	assert.ErrorContains(t, cfg.Validate(), "engine.max_smiles_length")

	cfg = validConfig()
	cfg.Engine.Conformer.MaxAtoms = 0
	assert.ErrorContains(t, cfg.Validate(), "engine.conformer.max_atoms")

	cfg = validConfig()
	cfg.Engine.Conformer.Workers = -1
	assert.ErrorContains(t, cfg.Validate(), "engine.conformer.workers")

	cfg = validConfig()
	cfg.Engine.Conformer.MaxIterations = 0
	assert.ErrorContains(t, cfg.Validate(), "engine.conformer.max_iterations")
}

func TestValidate_CacheBackendInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = "memcached"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
}

func TestValidate_RedisAddrRequiredWhenRedisBackendEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.redis.addr")
}

func TestValidate_RedisBackendDisabledSkipsAddrCheck(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MetricsPathMustBeRooted(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "metrics"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.path")
}

func TestValidate_LogLevelInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate_LogFormatInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Format = "text"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
