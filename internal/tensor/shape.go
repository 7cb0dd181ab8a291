package tensor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1 // Scalar has 1 element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative.
// Zero-length dimensions are legal: slicing can produce them.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String formats the shape as a tuple, e.g. "(4, 3)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// BroadcastError reports two shapes that cannot be reconciled under
// NumPy broadcasting rules.
type BroadcastError struct {
	Target Shape
	Value  Shape
	Dim    int    // Axis of Target (or of the broadcast result) that failed; -1 for rank errors.
	Reason string // Optional extra context.
}

func (e *BroadcastError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cannot broadcast shape %s against %s", e.Value, e.Target)
	if e.Dim >= 0 {
		fmt.Fprintf(&sb, " (dimension %d)", e.Dim)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and
// a *BroadcastError if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aDim := dimFromRight(a, i)
		bDim := dimFromRight(b, i)

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, &BroadcastError{Target: a, Value: b, Dim: maxLen - 1 - i}
		}
	}

	return result, needsBroadcast, nil
}

// CheckAssignable reports whether a value of shape value can be written into a
// region of shape target. Unlike BroadcastShapes this is one-directional: the
// value may stretch its size-1 (or missing leading) dimensions, the target never
// changes.
func CheckAssignable(target, value Shape) error {
	orig := value
	if len(value) > len(target) {
		// Extra leading ones are harmless, anything else is not.
		extra := len(value) - len(target)
		for i := 0; i < extra; i++ {
			if value[i] != 1 {
				return &BroadcastError{Target: target, Value: orig, Dim: -1,
					Reason: fmt.Sprintf("value has rank %d but the selected region has rank %d", len(value), len(target))}
			}
		}
		value = value[extra:]
	}
	for i := 0; i < len(value); i++ {
		vDim := dimFromRight(value, i)
		tDim := dimFromRight(target, i)
		if vDim != tDim && vDim != 1 {
			return &BroadcastError{Target: target, Value: orig, Dim: len(target) - 1 - i}
		}
	}
	return nil
}

// dimFromRight returns the i-th dimension counting from the last one,
// treating missing dimensions as 1.
func dimFromRight(s Shape, i int) int {
	idx := len(s) - 1 - i
	if idx < 0 {
		return 1
	}
	return s[idx]
}
