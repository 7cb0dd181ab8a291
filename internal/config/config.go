// Package config loads the runtime configuration of the subtensor tools.
//
// Values come from, in increasing precedence: built-in defaults, a YAML file,
// and SUBTENSOR_* environment variables.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/subtensor/internal/parallel"
)

// Backend names accepted in Config.Backend.
const (
	BackendCPU    = "cpu"
	BackendWebGPU = "webgpu"
)

// Config is the complete runtime configuration.
type Config struct {
	// Backend selects the array engine: "cpu" or "webgpu".
	Backend string `yaml:"backend"`

	// Parallel controls how the CPU backend splits element loops.
	Parallel parallel.Config `yaml:"parallel"`

	// ClosureCacheSize bounds the number of compiled closures reused across
	// identical program nodes. 0 disables the cache.
	ClosureCacheSize int `yaml:"closure_cache_size"`

	// BatchWorkers is the number of input sets a batch run executes at once.
	BatchWorkers int `yaml:"batch_workers"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Backend:          BackendCPU,
		Parallel:         parallel.DefaultConfig(),
		ClosureCacheSize: 256,
		BatchWorkers:     runtime.NumCPU(),
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// loadYAML decodes path over the current values, so keys missing from the
// file keep their defaults.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

// applyEnvOverrides applies SUBTENSOR_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SUBTENSOR_BACKEND"); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("SUBTENSOR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "SUBTENSOR_WORKERS=%q", v)
		}
		c.Parallel.NumWorkers = n
		c.Parallel.Enabled = n > 1
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendCPU, BackendWebGPU:
	default:
		return errors.Errorf("backend must be %q or %q, got %q", BackendCPU, BackendWebGPU, c.Backend)
	}
	if c.Parallel.NumWorkers < 0 {
		return errors.Errorf("parallel.workers must be non-negative, got %d", c.Parallel.NumWorkers)
	}
	if c.Parallel.MinChunkSize < 0 {
		return errors.Errorf("parallel.min_chunk_size must be non-negative, got %d", c.Parallel.MinChunkSize)
	}
	if c.ClosureCacheSize < 0 {
		return errors.Errorf("closure_cache_size must be non-negative, got %d", c.ClosureCacheSize)
	}
	if c.BatchWorkers < 1 {
		return errors.Errorf("batch_workers must be at least 1, got %d", c.BatchWorkers)
	}
	return nil
}

// WriteYAML writes the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
