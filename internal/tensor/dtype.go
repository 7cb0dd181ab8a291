// Package tensor provides the raw tensor representation shared by the dispatch
// layer and the array backends.
package tensor

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Element is a constraint for the Go types that can back a RawTensor.
type Element interface {
	float32 | float64 | int32 | int64 | uint8 | bool | float16.Float16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
	Float16
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Float16:
		return 2
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// IsInteger reports whether values of this type can be used as positions.
func (dt DataType) IsInteger() bool {
	return dt == Int32 || dt == Int64 || dt == Uint8
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToLower(name) {
	case "float32", "f32":
		return Float32, nil
	case "float64", "f64":
		return Float64, nil
	case "int32", "i32":
		return Int32, nil
	case "int64", "i64":
		return Int64, nil
	case "uint8", "u8":
		return Uint8, nil
	case "bool":
		return Bool, nil
	case "float16", "f16":
		return Float16, nil
	}
	return 0, errors.Errorf("unknown data type %q", name)
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Element]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	case float16.Float16:
		return Float16
	default:
		panic("unsupported type")
	}
}
