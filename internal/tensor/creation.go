package tensor

import (
	"bytes"

	"github.com/pkg/errors"
)

// FromSlice creates a CPU tensor holding a copy of data with the given shape.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, errors.Errorf("data length %d does not match shape %s (%d elements)",
			len(data), shape, shape.NumElements())
	}
	raw, err := NewRaw(shape, inferDataType[T](), CPU)
	if err != nil {
		return nil, err
	}
	copy(asSlice[T](raw, raw.dtype), data)
	return raw, nil
}

// Scalar creates a 0-d CPU tensor.
func Scalar[T Element](value T) *RawTensor {
	raw, err := FromSlice([]T{value}, Shape{})
	if err != nil {
		panic(err) // A 0-d shape always holds exactly one element.
	}
	return raw
}

// Zeros creates a zero-filled CPU tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype, CPU)
}

// ZerosLike creates a zero-filled tensor with the shape, dtype and device of t.
func ZerosLike(t *RawTensor) *RawTensor {
	raw, err := NewRaw(t.shape, t.dtype, t.device)
	if err != nil {
		panic(err) // t's shape was already validated.
	}
	return raw
}

// Arange creates the vector [0, 1, ..., n-1] with the given dtype.
func Arange(n int, dtype DataType) (*RawTensor, error) {
	raw, err := NewRaw(Shape{n}, dtype, CPU)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		fillRange(raw.AsFloat32())
	case Float64:
		fillRange(raw.AsFloat64())
	case Int32:
		fillRange(raw.AsInt32())
	case Int64:
		fillRange(raw.AsInt64())
	case Uint8:
		fillRange(raw.AsUint8())
	default:
		return nil, errors.Errorf("arange: unsupported dtype %s", dtype)
	}
	return raw, nil
}

func fillRange[T float32 | float64 | int32 | int64 | uint8](dst []T) {
	for i := range dst {
		dst[i] = T(i)
	}
}

// Reshape returns a copy of r with a new shape holding the same number of elements.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != r.NumElements() {
		return nil, errors.Errorf("reshape: incompatible shapes: %s -> %s (different number of elements)",
			r.shape, shape)
	}
	out := r.Clone()
	out.shape = shape.Clone()
	out.stride = shape.ComputeStrides()
	return out, nil
}

// Equal reports whether two tensors have the same dtype, shape and bytes.
func (r *RawTensor) Equal(other *RawTensor) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.dtype == other.dtype && r.shape.Equal(other.shape) && bytes.Equal(r.data, other.data)
}
