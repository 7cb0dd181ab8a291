package dispatch

import (
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// CheckBroadcast verifies that an update value of shape value can be written
// into target[expr] under NumPy broadcasting rules. An expr with no items
// selects the whole target.
//
// broadcastable is the value's static broadcast pattern. When it is not empty
// and the value has the region's rank, a leading value dimension of size 1
// may only stretch against a longer selection if broadcastable[0] is set.
//
// Examples:
//
//	target (4, 3), value (3,)   → ok
//	target (4, 3), value (5,)   → *tensor.BroadcastError
//	target (4, 3), expr [[0, 2]], value (1, 3), broadcastable [false, false] → *tensor.BroadcastError
func CheckBroadcast(target, value tensor.Shape, expr index.Expr, broadcastable []bool) error {
	region := target
	if len(expr.Items) > 0 {
		shape, err := index.ResultShape(target, expr)
		if err != nil {
			return err
		}
		region = shape
	}
	if err := tensor.CheckAssignable(region, value); err != nil {
		return err
	}
	if len(broadcastable) == 0 || len(value) == 0 || len(value) != len(region) {
		return nil
	}
	if value[0] == 1 && region[0] != 1 && !broadcastable[0] {
		return &tensor.BroadcastError{Target: region, Value: value, Dim: 0,
			Reason: "runtime broadcasting of a leading dimension not declared broadcastable"}
	}
	return nil
}
