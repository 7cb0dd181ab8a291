package dispatch

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// registerSliceOps adds MakeSlice.
func (r *Registry) registerSliceOps() {
	mustRegister(r.Register(MakeSlice, newMakeSlice))
}

// newMakeSlice compiles (args...) -> index.Slice. Arguments follow Python's
// slice(): one argument is the stop, two are start and stop, three add the
// step. A nil argument leaves that bound unset. MakeSlice needs no backend.
func newMakeSlice(_ *Context, attrs Attributes) (Closure, error) {
	return protect(MakeSlice, attrs, func(args ...Value) (Value, error) {
		if len(args) > 3 {
			return nil, &index.MalformedIndexSpecError{
				Reason: fmt.Sprintf("MakeSlice expects at most 3 arguments, got %d", len(args))}
		}
		bounds := make([]*int, 3)
		for i, arg := range args {
			v, err := sliceBound(arg)
			if err != nil {
				return nil, errors.WithMessagef(err, "MakeSlice argument %d", i)
			}
			bounds[i] = v
		}

		var start, stop, step *int
		switch len(args) {
		case 1:
			stop = bounds[0]
		case 2, 3:
			start, stop, step = bounds[0], bounds[1], bounds[2]
		}

		var s index.Slice
		if start != nil {
			s = s.From(*start)
		}
		if stop != nil {
			s = s.To(*stop)
		}
		if step != nil {
			if *step == 0 {
				return nil, &index.MalformedIndexSpecError{Reason: "slice step cannot be zero"}
			}
			s = s.By(*step)
		}
		return s, nil
	}), nil
}

// sliceBound decodes one MakeSlice argument. nil means "not set".
func sliceBound(arg Value) (*int, error) {
	var v int
	switch a := arg.(type) {
	case nil:
		return nil, nil
	case int:
		v = a
	case int32:
		v = int(a)
	case int64:
		v = int(a)
	case *tensor.RawTensor:
		if a == nil {
			return nil, nil
		}
		if a.Rank() != 0 {
			return nil, &index.MalformedIndexSpecError{Reason: "slice bound must be a scalar, got shape " + a.Shape().String()}
		}
		ints, err := a.Ints()
		if err != nil {
			return nil, &index.MalformedIndexSpecError{Reason: err.Error()}
		}
		v = ints[0]
	default:
		return nil, &index.MalformedIndexSpecError{Reason: fmt.Sprintf("slice bound has unsupported type %T", arg)}
	}
	return &v, nil
}
