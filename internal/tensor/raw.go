package tensor

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// Device represents the compute device holding a tensor.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the untyped, row-major tensor representation that flows through
// compiled closures. A RawTensor handed to a closure is treated as immutable:
// every operation that writes returns a new tensor.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw creates a new zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}
	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Strides returns the tensor's element strides (row-major).
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// Clone returns a deep copy that shares nothing with r.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:   append([]byte(nil), r.data...),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// WithDevice returns a shallow view of r tagged with another device.
func (r *RawTensor) WithDevice(device Device) *RawTensor {
	view := *r
	view.device = device
	return &view
}

func asSlice[T Element](r *RawTensor, want DataType) []T {
	if r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), n)
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 { return asSlice[float32](r, Float32) }

// AsFloat64 interprets the data as []float64.
func (r *RawTensor) AsFloat64() []float64 { return asSlice[float64](r, Float64) }

// AsInt32 interprets the data as []int32.
func (r *RawTensor) AsInt32() []int32 { return asSlice[int32](r, Int32) }

// AsInt64 interprets the data as []int64.
func (r *RawTensor) AsInt64() []int64 { return asSlice[int64](r, Int64) }

// AsUint8 interprets the data as []uint8.
func (r *RawTensor) AsUint8() []uint8 { return asSlice[uint8](r, Uint8) }

// AsBool interprets the data as []bool.
func (r *RawTensor) AsBool() []bool { return asSlice[bool](r, Bool) }

// AsFloat16 interprets the data as []float16.Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 { return asSlice[float16.Float16](r, Float16) }

// Ints decodes an integer tensor into positions.
func (r *RawTensor) Ints() ([]int, error) {
	switch r.dtype {
	case Int32:
		return widen(r.AsInt32()), nil
	case Int64:
		return widen(r.AsInt64()), nil
	case Uint8:
		return widen(r.AsUint8()), nil
	default:
		return nil, errors.Errorf("tensor of dtype %s cannot be read as integers", r.dtype)
	}
}

func widen[T constraints.Integer](src []T) []int {
	out := make([]int, len(src))
	for i, v := range src {
		out[i] = int(v)
	}
	return out
}

// Values returns a copy of the elements as a typed Go slice ([]float32, []int64, ...).
func (r *RawTensor) Values() any {
	switch r.dtype {
	case Float32:
		return append([]float32(nil), r.AsFloat32()...)
	case Float64:
		return append([]float64(nil), r.AsFloat64()...)
	case Int32:
		return append([]int32(nil), r.AsInt32()...)
	case Int64:
		return append([]int64(nil), r.AsInt64()...)
	case Uint8:
		return append([]uint8(nil), r.AsUint8()...)
	case Bool:
		return append([]bool(nil), r.AsBool()...)
	case Float16:
		src := r.AsFloat16()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = v.Float32()
		}
		return out
	}
	return nil
}

// String renders the tensor as "dtype(shape) [values]".
func (r *RawTensor) String() string {
	return fmt.Sprintf("%s%s %v", r.dtype, r.shape, r.Values())
}
