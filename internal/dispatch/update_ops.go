package dispatch

import (
	"fmt"

	"github.com/born-ml/subtensor/internal/index"
)

// registerUpdateOps adds the scatter operators.
func (r *Registry) registerUpdateOps() {
	mustRegister(r.Register(ScatterSet, newScatter(ScatterSet)))
	mustRegister(r.Register(ScatterAdd, newScatter(ScatterAdd)))
	mustRegister(r.Register(ScatterNdSet, newScatterNd(ScatterNdSet)))
	mustRegister(r.Register(ScatterNdAdd, newScatterNd(ScatterNdAdd)))
}

// newScatter returns the factory of (x, y, ilist) -> x with x[ilist] set to
// or incremented by y. The shape guard runs before the backend is called.
func newScatter(kind OperatorKind) Factory {
	mode, _ := kind.WriteMode()
	return func(ctx *Context, attrs Attributes) (Closure, error) {
		backend, err := backendOf(ctx, kind)
		if err != nil {
			return nil, err
		}
		broadcastable := attrs.ValueBroadcastable
		if broadcastable != nil && len(broadcastable) == 0 {
			return nil, &index.MalformedIndexSpecError{
				Reason: fmt.Sprintf("%s: empty value broadcast pattern, omit it to skip the check", kind)}
		}
		return protect(kind, attrs, func(inputs ...Value) (Value, error) {
			if err := checkArity(kind, nil, inputs, 3); err != nil {
				return nil, err
			}
			x, err := tensorInput(kind, inputs, 0, "x")
			if err != nil {
				return nil, err
			}
			y, err := tensorInput(kind, inputs, 1, "y")
			if err != nil {
				return nil, err
			}
			ilist, err := tensorInput(kind, inputs, 2, "ilist")
			if err != nil {
				return nil, err
			}
			expr := index.Of(index.ArrayItem(ilist))
			if err := CheckBroadcast(x.Shape(), y.Shape(), expr, broadcastable); err != nil {
				return nil, err
			}
			return result(backend.IndexedUpdate(x, expr, y, mode))
		}), nil
	}
}

// newScatterNd returns the factory of (x, y, fancy...) -> x with x[spec] set
// to or incremented by y.
func newScatterNd(kind OperatorKind) Factory {
	mode, _ := kind.WriteMode()
	return func(ctx *Context, attrs Attributes) (Closure, error) {
		backend, err := backendOf(ctx, kind)
		if err != nil {
			return nil, err
		}
		spec := attrs.Spec
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		arity := 2 + spec.NumFancy()
		return protect(kind, attrs, func(inputs ...Value) (Value, error) {
			if err := checkArity(kind, spec, inputs, arity); err != nil {
				return nil, err
			}
			x, err := tensorInput(kind, inputs, 0, "x")
			if err != nil {
				return nil, err
			}
			y, err := tensorInput(kind, inputs, 1, "y")
			if err != nil {
				return nil, err
			}
			expr, err := index.Normalize(spec, inputs[2:])
			if err != nil {
				return nil, err
			}
			return result(backend.IndexedUpdate(x, expr, y, mode))
		}), nil
	}
}
