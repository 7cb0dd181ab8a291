package index

import (
	"fmt"
)

// MalformedIndexSpecError reports a mismatch between a static Spec and the
// values supplied for it, or a Spec that is invalid on its own.
// It signals a bug in whatever built the operator node and is never retried.
type MalformedIndexSpecError struct {
	Spec   Spec
	Reason string
}

func (e *MalformedIndexSpecError) Error() string {
	if e.Spec == nil {
		return "malformed index spec: " + e.Reason
	}
	return fmt.Sprintf("malformed index spec [%s]: %s", e.Spec, e.Reason)
}

func malformed(spec Spec, format string, args ...any) error {
	return &MalformedIndexSpecError{Spec: spec, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedIndexPatternError reports an index pattern that a backend cannot
// express. Hint tells the caller how to restructure the computation.
type UnsupportedIndexPatternError struct {
	Backend string
	Pattern string
	Hint    string
}

func (e *UnsupportedIndexPatternError) Error() string {
	msg := "unsupported index pattern: " + e.Pattern
	if e.Backend != "" {
		msg = e.Backend + ": " + msg
	}
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

// BooleanMaskHint is attached to errors for boolean-mask indices.
const BooleanMaskHint = `Boolean masks select a data-dependent number of elements, so the result
shape cannot be fixed ahead of execution. Re-express the computation with a
select instead: for example sum(x[x > 0]) can be written as
sum(where(x > 0, x, 0)).`

// DynamicSliceHint is attached to errors for slices on backends whose kernels
// are sized by index lists and cannot derive a slice length at run time.
const DynamicSliceHint = `The backend cannot derive the length of a slice when the kernel runs.
Gather explicit positions with a fancy index instead (for example the range
start, start+step, ... up to stop), or run the node on the CPU backend.`

// IndexOutOfRangeError reports a position outside of an axis. Positions are
// never clamped.
type IndexOutOfRangeError struct {
	Index int
	Axis  int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d is out of bounds for axis %d with size %d", e.Index, e.Axis, e.Size)
}
