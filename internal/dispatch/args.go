package dispatch

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// backendOf returns the backend a tensor operator binds to.
func backendOf(ctx *Context, kind OperatorKind) (Backend, error) {
	if ctx == nil || ctx.Backend == nil {
		return nil, errors.Errorf("%s requires a backend in the dispatch context", kind)
	}
	return ctx.Backend, nil
}

// checkArity validates the number of runtime inputs.
func checkArity(kind OperatorKind, spec index.Spec, inputs []Value, want int) error {
	if len(inputs) != want {
		return &index.MalformedIndexSpecError{Spec: spec,
			Reason: fmt.Sprintf("%s expects %d inputs, got %d", kind, want, len(inputs))}
	}
	return nil
}

// tensorInput returns inputs[i] as a tensor.
func tensorInput(kind OperatorKind, inputs []Value, i int, name string) (*tensor.RawTensor, error) {
	t, ok := inputs[i].(*tensor.RawTensor)
	if !ok || t == nil {
		return nil, errors.Errorf("%s: input %d (%s) must be a tensor, got %T", kind, i, name, inputs[i])
	}
	return t, nil
}

// result converts a backend return into closure outputs, never wrapping a
// nil tensor in a non-nil Value.
func result(t *tensor.RawTensor, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

// protect turns panics raised by backend kernels into errors, so a failing
// node never takes down the caller.
func protect(kind OperatorKind, attrs Attributes, fn Closure) Closure {
	label := nodeLabel(attrs.Name)
	return func(inputs ...Value) (Value, error) {
		var (
			out Value
			err error
		)
		if klog.V(3).Enabled() {
			klog.Infof("dispatch: %s%s called with %d inputs", kind, label, len(inputs))
		}
		if caught := exceptions.TryCatch[error](func() { out, err = fn(inputs...) }); caught != nil {
			return nil, errors.Wrapf(caught, "%s%s: backend failure", kind, label)
		}
		return out, err
	}
}
