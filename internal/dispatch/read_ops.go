package dispatch

import (
	"github.com/born-ml/subtensor/internal/index"
)

// registerReadOps adds the gather operators.
func (r *Registry) registerReadOps() {
	mustRegister(r.Register(Gather, newGather))
	mustRegister(r.Register(GatherNd, newGatherNd))
}

// newGather compiles (x, ilist) -> x[ilist].
func newGather(ctx *Context, attrs Attributes) (Closure, error) {
	backend, err := backendOf(ctx, Gather)
	if err != nil {
		return nil, err
	}
	taker, hasTake := backend.(Taker)
	return protect(Gather, attrs, func(inputs ...Value) (Value, error) {
		if err := checkArity(Gather, nil, inputs, 2); err != nil {
			return nil, err
		}
		x, err := tensorInput(Gather, inputs, 0, "x")
		if err != nil {
			return nil, err
		}
		ilist, err := tensorInput(Gather, inputs, 1, "ilist")
		if err != nil {
			return nil, err
		}
		if hasTake && ilist.Rank() == 1 && ilist.DType().IsInteger() {
			return result(taker.Take(x, ilist))
		}
		return result(backend.Index(x, index.Of(index.ArrayItem(ilist))))
	}), nil
}

// newGatherNd compiles (x, fancy...) -> x[spec], binding the spec's Fancy
// slots to the trailing inputs.
func newGatherNd(ctx *Context, attrs Attributes) (Closure, error) {
	backend, err := backendOf(ctx, GatherNd)
	if err != nil {
		return nil, err
	}
	spec := attrs.Spec
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	arity := 1 + spec.NumFancy()
	return protect(GatherNd, attrs, func(inputs ...Value) (Value, error) {
		if err := checkArity(GatherNd, spec, inputs, arity); err != nil {
			return nil, err
		}
		x, err := tensorInput(GatherNd, inputs, 0, "x")
		if err != nil {
			return nil, err
		}
		expr, err := index.Normalize(spec, inputs[1:])
		if err != nil {
			return nil, err
		}
		return result(backend.Index(x, expr))
	}), nil
}

// mustRegister panics on registration errors of built-in operators.
func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
