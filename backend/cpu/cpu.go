// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/born-ml/subtensor/dispatch"
	internalcpu "github.com/born-ml/subtensor/internal/backend/cpu"
	"github.com/born-ml/subtensor/internal/parallel"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how reads are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time checks that Backend serves every closure kind.
var (
	_ dispatch.Backend = (*Backend)(nil)
	_ dispatch.Taker   = (*Backend)(nil)
)

// New creates a new CPU backend using one worker per CPU.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the settings used by New.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig returns settings that keep every loop on the calling goroutine.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}
