// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dispatch is the public registry mapping indexing operators to
// backend closures.
//
// A graph compiler resolves each indexing node once:
//
//	ctx := &dispatch.Context{Backend: cpu.New()}
//	spec, _ := index.ParseSpec("?, 1:")
//	closure, err := dispatch.Default().Compile(ctx, dispatch.GatherNd, dispatch.Attributes{Spec: spec})
//	if err != nil {
//	    log.Fatal(err) // *UnsupportedOperatorError or *index.MalformedIndexSpecError
//	}
//
// and then calls the closure on every execution:
//
//	out, err := closure(x, rows)
//
// Default is frozen. Build a registry with NewRegistry to register custom
// factories or to replace a built-in one.
package dispatch

import (
	"github.com/born-ml/subtensor/index"
	"github.com/born-ml/subtensor/internal/dispatch"
	"github.com/born-ml/subtensor/tensor"
)

// Core types.
type (
	Value        = dispatch.Value
	Closure      = dispatch.Closure
	Backend      = dispatch.Backend
	Taker        = dispatch.Taker
	Context      = dispatch.Context
	Attributes   = dispatch.Attributes
	Factory      = dispatch.Factory
	Registry     = dispatch.Registry
	OperatorKind = dispatch.OperatorKind
)

// Indexing operators.
const (
	Gather       OperatorKind = dispatch.Gather
	GatherNd     OperatorKind = dispatch.GatherNd
	ScatterSet   OperatorKind = dispatch.ScatterSet
	ScatterAdd   OperatorKind = dispatch.ScatterAdd
	ScatterNdSet OperatorKind = dispatch.ScatterNdSet
	ScatterNdAdd OperatorKind = dispatch.ScatterNdAdd
	MakeSlice    OperatorKind = dispatch.MakeSlice
)

// UnsupportedOperatorError is returned for an operator kind with no registered factory.
type UnsupportedOperatorError = dispatch.UnsupportedOperatorError

// Registration errors.
var (
	ErrDuplicateOperator = dispatch.ErrDuplicateOperator
	ErrRegistryFrozen    = dispatch.ErrRegistryFrozen
)

// Default returns the frozen process-wide registry of built-in operators.
func Default() *Registry {
	return dispatch.Default()
}

// NewRegistry returns a mutable registry holding the built-in operators.
func NewRegistry() *Registry {
	return dispatch.NewRegistry()
}

// NewEmptyRegistry returns a mutable registry with no operators.
func NewEmptyRegistry() *Registry {
	return dispatch.NewEmptyRegistry()
}

// AllKinds lists every valid operator kind.
func AllKinds() []OperatorKind {
	return dispatch.AllKinds()
}

// ParseOperatorKind parses an operator name such as "ScatterNdAdd".
func ParseOperatorKind(name string) (OperatorKind, error) {
	return dispatch.ParseOperatorKind(name)
}

// UpdateKind returns the scatter kind for a leading-axis (nd == false) or
// spec-driven update in the given mode.
func UpdateKind(nd bool, mode index.WriteMode) OperatorKind {
	return dispatch.UpdateKind(nd, mode)
}

// CheckBroadcast reports whether value can be written into target[expr].
// broadcastable is the static broadcast pattern of value; nil skips the
// leading-dimension check.
func CheckBroadcast(target, value tensor.Shape, expr index.Expr, broadcastable []bool) error {
	return dispatch.CheckBroadcast(target, value, expr, broadcastable)
}
