package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/parallel"
	"github.com/born-ml/subtensor/internal/tensor"
)

// Index reads x[expr] with NumPy semantics and returns a new tensor.
//
// Example:
//
//	x: [4, 3]
//	expr: (1:, [0, 0])   // slice then fancy
//	output: [3, 2] where output[i, j] = x[1+i, 0]
func (cpu *CPUBackend) Index(x *tensor.RawTensor, expr index.Expr) (*tensor.RawTensor, error) {
	sel, err := index.Select(x.Shape(), expr)
	if err != nil {
		return nil, cpu.tagged(err)
	}
	result, err := tensor.NewRaw(sel.Shape, x.DType(), cpu.device)
	if err != nil {
		return nil, errors.Wrap(err, "index: failed to create result tensor")
	}
	gather(result, x, sel.Offsets(), cpu.parallel)
	return result, nil
}

// Take selects whole slices along the leading axis: output[i] = x[idx[i]].
// It is the fast path for single fancy-index reads. Negative positions count
// from the end; anything else out of range is an *index.IndexOutOfRangeError.
func (cpu *CPUBackend) Take(x, idx *tensor.RawTensor) (*tensor.RawTensor, error) {
	if x.Rank() == 0 {
		return nil, &index.MalformedIndexSpecError{Reason: "too many indices: cannot take rows of a 0-d tensor"}
	}
	if idx.Rank() != 1 {
		return cpu.Index(x, index.Of(index.ArrayItem(idx)))
	}
	positions, err := idx.Ints()
	if err != nil {
		return nil, &index.MalformedIndexSpecError{Reason: err.Error()}
	}
	rows := x.Shape()[0]
	for i, p := range positions {
		if p < 0 {
			p += rows
		}
		if p < 0 || p >= rows {
			return nil, &index.IndexOutOfRangeError{Index: positions[i], Axis: 0, Size: rows}
		}
		positions[i] = p
	}

	outShape := append(tensor.Shape{len(positions)}, x.Shape()[1:]...)
	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		return nil, errors.Wrap(err, "take: failed to create result tensor")
	}
	rowBytes := x.Shape()[1:].NumElements() * x.DType().Size()
	dst, src := result.Data(), x.Data()
	parallel.For(len(positions), func(i int) {
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[positions[i]*rowBytes:(positions[i]+1)*rowBytes])
	}, cpu.parallel)
	return result, nil
}

// gather copies x's elements at offsets into dst, in order.
//
//nolint:cyclop // Type-specific dispatch (7 dtypes)
func gather(dst, x *tensor.RawTensor, offsets []int, cfg parallel.Config) {
	if dst.NumElements() != len(offsets) {
		exceptions.Panicf("gather: %d offsets for a result of %d elements", len(offsets), dst.NumElements())
	}
	switch x.DType() {
	case tensor.Float32:
		gatherElements(dst.AsFloat32(), x.AsFloat32(), offsets, cfg)
	case tensor.Float64:
		gatherElements(dst.AsFloat64(), x.AsFloat64(), offsets, cfg)
	case tensor.Int32:
		gatherElements(dst.AsInt32(), x.AsInt32(), offsets, cfg)
	case tensor.Int64:
		gatherElements(dst.AsInt64(), x.AsInt64(), offsets, cfg)
	case tensor.Uint8:
		gatherElements(dst.AsUint8(), x.AsUint8(), offsets, cfg)
	case tensor.Bool:
		gatherElements(dst.AsBool(), x.AsBool(), offsets, cfg)
	case tensor.Float16:
		gatherElements(dst.AsFloat16(), x.AsFloat16(), offsets, cfg)
	default:
		exceptions.Panicf("gather: unsupported dtype %s", x.DType())
	}
}

func gatherElements[T any](dst, src []T, offsets []int, cfg parallel.Config) {
	parallel.For(len(offsets), func(i int) {
		dst[i] = src[offsets[i]]
	}, cfg)
}
