//go:build !windows

package cmd

import (
	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/backend/cpu"
	"github.com/born-ml/subtensor/internal/config"
	"github.com/born-ml/subtensor/internal/dispatch"
)

// newBackend creates the configured backend and its release function.
func newBackend(cfg *config.Config) (dispatch.Backend, func(), error) {
	if cfg.Backend == config.BackendWebGPU {
		return nil, nil, errors.New("the webgpu backend is only available in windows builds")
	}
	return cpu.NewWithConfig(cfg.Parallel), func() {}, nil
}
