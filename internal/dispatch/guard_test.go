package dispatch

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

func TestCheckBroadcast(t *testing.T) {
	pair := index.Of(index.ArrayItem(must.M1(tensor.FromSlice([]int32{0, 2}, tensor.Shape{2}))))
	tests := []struct {
		name          string
		target, value tensor.Shape
		expr          index.Expr
		broadcastable []bool
		wantErr       bool
	}{
		{"trailing match", tensor.Shape{4, 3}, tensor.Shape{3}, index.Expr{}, nil, false},
		{"trailing mismatch", tensor.Shape{4, 3}, tensor.Shape{5}, index.Expr{}, nil, true},
		{"scalar", tensor.Shape{4, 3}, tensor.Shape{}, index.Expr{}, nil, false},
		{"too many dims", tensor.Shape{3}, tensor.Shape{2, 3}, index.Expr{}, nil, true},
		{"extra leading ones", tensor.Shape{3}, tensor.Shape{1, 1, 3}, index.Expr{}, nil, false},
		{"selected rows", tensor.Shape{4, 3}, tensor.Shape{2, 3}, pair, nil, false},
		{"stretch allowed", tensor.Shape{4, 3}, tensor.Shape{1, 3}, pair, []bool{true, false}, false},
		{"stretch undeclared", tensor.Shape{4, 3}, tensor.Shape{1, 3}, pair, []bool{false, false}, true},
		{"no pattern", tensor.Shape{4, 3}, tensor.Shape{1, 3}, pair, nil, false},
		{"lower rank skips pattern", tensor.Shape{4, 3}, tensor.Shape{3}, pair, []bool{false}, false},
		{"empty pattern skips check", tensor.Shape{4, 3}, tensor.Shape{1, 3}, pair, []bool{}, false},
		{"empty pattern still checks shapes", tensor.Shape{4, 3}, tensor.Shape{5}, pair, []bool{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBroadcast(tt.target, tt.value, tt.expr, tt.broadcastable)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var bErr *tensor.BroadcastError
			require.True(t, errors.As(err, &bErr), "got %v", err)
			assert.Equal(t, tt.value, bErr.Value)
		})
	}
}

func TestCheckBroadcastNamesBothShapes(t *testing.T) {
	err := CheckBroadcast(tensor.Shape{4, 3}, tensor.Shape{5}, index.Expr{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(4, 3)")
	assert.Contains(t, err.Error(), "(5,)")
}

func TestCheckBroadcastPropagatesIndexErrors(t *testing.T) {
	out := index.Of(index.IntItem(7))
	err := CheckBroadcast(tensor.Shape{4, 3}, tensor.Shape{3}, out, nil)
	var rErr *index.IndexOutOfRangeError
	assert.True(t, errors.As(err, &rErr), "got %v", err)
}
