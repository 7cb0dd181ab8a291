// Package cpu implements the reference array backend for indexing closures.
//
// Tensors are contiguous row-major RawTensors. Reads are parallelized over the
// selected elements; indexed updates copy the input first and then write
// sequentially, so inputs are never mutated and repeated positions behave
// deterministically (Set: last write wins, Accumulate: every occurrence adds).
package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/parallel"
	"github.com/born-ml/subtensor/internal/tensor"
)

// CPUBackend executes indexing primitives on the host.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// tagged records this backend on unsupported-pattern errors.
func (cpu *CPUBackend) tagged(err error) error {
	var pErr *index.UnsupportedIndexPatternError
	if errors.As(err, &pErr) && pErr.Backend == "" {
		pErr.Backend = cpu.Name()
	}
	return err
}
