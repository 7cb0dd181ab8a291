//go:build windows

package cmd

import (
	"github.com/born-ml/subtensor/internal/backend/cpu"
	"github.com/born-ml/subtensor/internal/backend/webgpu"
	"github.com/born-ml/subtensor/internal/config"
	"github.com/born-ml/subtensor/internal/dispatch"
)

// newBackend creates the configured backend and its release function.
func newBackend(cfg *config.Config) (dispatch.Backend, func(), error) {
	if cfg.Backend == config.BackendWebGPU {
		gpu, err := webgpu.New()
		if err != nil {
			return nil, nil, err
		}
		return gpu, gpu.Release, nil
	}
	return cpu.NewWithConfig(cfg.Parallel), func() {}, nil
}
