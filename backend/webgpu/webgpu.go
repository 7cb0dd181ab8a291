//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides a GPU backend for the leading-axis indexing patterns.
//
// The backend serves row gathers and row scatters over float32 and int32
// tensors. Other patterns return an *index.UnsupportedIndexPatternError so the
// caller can fall back to the CPU backend.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	ctx := &dispatch.Context{Backend: gpu}
package webgpu

import (
	"github.com/born-ml/subtensor/dispatch"
	internalwebgpu "github.com/born-ml/subtensor/internal/backend/webgpu"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time checks that Backend serves every closure kind.
var (
	_ dispatch.Backend = (*Backend)(nil)
	_ dispatch.Taker   = (*Backend)(nil)
)

// New creates a new WebGPU backend.
//
// Call Release when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be obtained.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
