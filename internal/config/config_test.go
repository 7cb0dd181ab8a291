package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subtensor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, BackendCPU, cfg.Backend)
	assert.Equal(t, runtime.NumCPU(), cfg.Parallel.NumWorkers)
	assert.Equal(t, 256, cfg.ClosureCacheSize)
	assert.Equal(t, runtime.NumCPU(), cfg.BatchWorkers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("SUBTENSOR_BACKEND", "")
	t.Setenv("SUBTENSOR_WORKERS", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_FileOverridesOnlyGivenKeys(t *testing.T) {
	t.Setenv("SUBTENSOR_BACKEND", "")
	t.Setenv("SUBTENSOR_WORKERS", "")
	path := writeFile(t, `
parallel:
  enabled: false
  workers: 3
closure_cache_size: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendCPU, cfg.Backend)
	assert.False(t, cfg.Parallel.Enabled)
	assert.Equal(t, 3, cfg.Parallel.NumWorkers)
	assert.Equal(t, NewConfig().Parallel.MinChunkSize, cfg.Parallel.MinChunkSize)
	assert.Equal(t, 8, cfg.ClosureCacheSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "backend: cpu\n")
	t.Setenv("SUBTENSOR_BACKEND", "WebGPU")
	t.Setenv("SUBTENSOR_WORKERS", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendWebGPU, cfg.Backend)
	assert.Equal(t, 1, cfg.Parallel.NumWorkers)
	assert.False(t, cfg.Parallel.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("SUBTENSOR_BACKEND", "")
	t.Setenv("SUBTENSOR_WORKERS", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "backend: [cpu\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "backend: tpu\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	t.Setenv("SUBTENSOR_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	t.Setenv("SUBTENSOR_BACKEND", "")
	t.Setenv("SUBTENSOR_WORKERS", "")
	cfg := NewConfig()
	cfg.ClosureCacheSize = 17
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
