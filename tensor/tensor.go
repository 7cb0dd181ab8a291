// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/subtensor/internal/tensor"
)

// Element is a constraint for the Go types that can back a RawTensor.
type Element = tensor.Element

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
	Float16 DataType = tensor.Float16
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the untyped tensor passed to and returned by closures.
type RawTensor = tensor.RawTensor

// BroadcastError reports a value whose shape cannot be assigned into a region.
type BroadcastError = tensor.BroadcastError

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar returns a rank-0 tensor holding value.
func Scalar[T Element](value T) *RawTensor {
	return tensor.Scalar(value)
}

// Zeros returns a zero-filled CPU tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Arange returns the vector 0, 1, ..., n-1.
func Arange(n int, dtype DataType) (*RawTensor, error) {
	return tensor.Arange(n, dtype)
}

// ParseDataType parses names such as "float32" or "i64".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
