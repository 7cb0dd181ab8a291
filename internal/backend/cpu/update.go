package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// IndexedUpdate returns a copy of x where the region selected by expr is
// replaced by (index.Set) or incremented by (index.Accumulate) value.
//
// value must have x's dtype and broadcast onto the selected region. All
// validation happens before the copy is written, and x itself is never
// modified. Repeated positions are applied in row-major order of the region:
// with Set the last one wins, with Accumulate each occurrence adds.
// For bool tensors Accumulate is a logical OR.
func (cpu *CPUBackend) IndexedUpdate(x *tensor.RawTensor, expr index.Expr, value *tensor.RawTensor,
	mode index.WriteMode) (*tensor.RawTensor, error) {
	if value.DType() != x.DType() {
		return nil, errors.Errorf("indexed update: value dtype %s does not match tensor dtype %s",
			value.DType(), x.DType())
	}
	if mode != index.Set && mode != index.Accumulate {
		return nil, errors.Errorf("indexed update: unknown write mode %d", mode)
	}
	sel, err := index.Select(x.Shape(), expr)
	if err != nil {
		return nil, cpu.tagged(err)
	}
	if err := tensor.CheckAssignable(sel.Shape, value.Shape()); err != nil {
		return nil, err
	}

	offsets := sel.Offsets()
	source := broadcastIndices(value.Shape(), sel.Shape)
	result := x.Clone().WithDevice(cpu.device)
	scatter(result, value, offsets, source, mode)
	return result, nil
}

//nolint:cyclop // Type-specific dispatch (7 dtypes x 2 modes)
func scatter(dst, value *tensor.RawTensor, offsets, source []int, mode index.WriteMode) {
	accumulate := mode == index.Accumulate
	switch dst.DType() {
	case tensor.Float32:
		scatterNumeric(dst.AsFloat32(), value.AsFloat32(), offsets, source, accumulate)
	case tensor.Float64:
		scatterNumeric(dst.AsFloat64(), value.AsFloat64(), offsets, source, accumulate)
	case tensor.Int32:
		scatterNumeric(dst.AsInt32(), value.AsInt32(), offsets, source, accumulate)
	case tensor.Int64:
		scatterNumeric(dst.AsInt64(), value.AsInt64(), offsets, source, accumulate)
	case tensor.Uint8:
		scatterNumeric(dst.AsUint8(), value.AsUint8(), offsets, source, accumulate)
	case tensor.Bool:
		scatterBool(dst.AsBool(), value.AsBool(), offsets, source, accumulate)
	case tensor.Float16:
		scatterFloat16(dst.AsFloat16(), value.AsFloat16(), offsets, source, accumulate)
	default:
		exceptions.Panicf("indexed update: unsupported dtype %s", dst.DType())
	}
}

func scatterNumeric[T constraints.Integer | constraints.Float](dst, src []T, offsets, source []int, accumulate bool) {
	if accumulate {
		for i, off := range offsets {
			dst[off] += src[source[i]]
		}
		return
	}
	for i, off := range offsets {
		dst[off] = src[source[i]]
	}
}

func scatterBool(dst, src []bool, offsets, source []int, accumulate bool) {
	for i, off := range offsets {
		if accumulate {
			dst[off] = dst[off] || src[source[i]]
		} else {
			dst[off] = src[source[i]]
		}
	}
}

func scatterFloat16(dst, src []float16.Float16, offsets, source []int, accumulate bool) {
	for i, off := range offsets {
		if accumulate {
			dst[off] = float16.Fromfloat32(dst[off].Float32() + src[source[i]].Float32())
		} else {
			dst[off] = src[source[i]]
		}
	}
}
