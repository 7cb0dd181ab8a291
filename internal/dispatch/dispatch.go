// Package dispatch maps indexing operators to backend closures.
//
// A compilation pass looks up each operator node once in a Registry and gets
// back a Closure built for the node's static attributes. The closure is then
// called for every execution with the node's runtime inputs:
//
//	closure, err := dispatch.Default().Compile(ctx, dispatch.GatherNd, dispatch.Attributes{Spec: spec})
//	...
//	out, err := closure(x, rows, cols)
//
// Closures hold no mutable state and may be called from multiple goroutines.
package dispatch

import (
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// Value is a closure input or output: a *tensor.RawTensor, an index.Slice,
// or nil for an absent optional input.
type Value = any

// Closure executes one compiled operator node.
type Closure func(inputs ...Value) (Value, error)

// Backend is the array engine closures run on.
type Backend interface {
	// Name identifies the backend in errors and logs.
	Name() string

	// Index reads x[expr] with NumPy basic and advanced indexing semantics.
	Index(x *tensor.RawTensor, expr index.Expr) (*tensor.RawTensor, error)

	// IndexedUpdate returns a copy of x with value written into (index.Set)
	// or added to (index.Accumulate) the region x[expr].
	IndexedUpdate(x *tensor.RawTensor, expr index.Expr, value *tensor.RawTensor,
		mode index.WriteMode) (*tensor.RawTensor, error)
}

// Taker is implemented by backends with a dedicated leading-axis gather.
// Gather closures use it for rank-1 integer index vectors.
type Taker interface {
	Take(x, idx *tensor.RawTensor) (*tensor.RawTensor, error)
}

// Context carries what factories bind closures to.
type Context struct {
	Backend Backend
}

// Attributes are the static, per-node parameters of an operator.
type Attributes struct {
	// Name labels the node in errors and logs. Optional.
	Name string

	// Spec is the static index spec of GatherNd, ScatterNdSet and
	// ScatterNdAdd. Its Fancy slots are bound, in order, to the trailing
	// runtime inputs.
	Spec index.Spec

	// ValueBroadcastable is the static broadcast pattern of the update value
	// of ScatterSet and ScatterAdd. When set, a leading value dimension of
	// size 1 may only stretch against the selected rows if it is declared
	// broadcastable. Nil disables the check; an empty pattern is malformed.
	ValueBroadcastable []bool
}

// Clone returns a deep copy of a.
func (a Attributes) Clone() Attributes {
	out := a
	out.Spec = a.Spec.Clone()
	if a.ValueBroadcastable != nil {
		out.ValueBroadcastable = make([]bool, len(a.ValueBroadcastable))
		copy(out.ValueBroadcastable, a.ValueBroadcastable)
	}
	return out
}

// Factory builds the closure of one operator node. Static attributes are
// validated here, so a closure that compiled only fails on runtime inputs.
type Factory func(ctx *Context, attrs Attributes) (Closure, error)
