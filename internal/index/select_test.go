package index

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/subtensor/internal/tensor"
)

func ints(shape tensor.Shape, values ...int32) *tensor.RawTensor {
	return must.M1(tensor.FromSlice(values, shape))
}

func TestSelectShapesAndOffsets(t *testing.T) {
	tests := []struct {
		name    string
		source  tensor.Shape
		expr    Expr
		shape   tensor.Shape
		offsets []int // nil to skip
	}{
		{
			name:    "leading fancy rows",
			source:  tensor.Shape{4, 3},
			expr:    Of(ArrayItem(ints(tensor.Shape{2}, 2, 0))),
			shape:   tensor.Shape{2, 3},
			offsets: []int{6, 7, 8, 0, 1, 2},
		},
		{
			name:    "slice then int",
			source:  tensor.Shape{4, 3},
			expr:    Of(SliceItem(Slice{}.From(1)), IntItem(1)),
			shape:   tensor.Shape{3},
			offsets: []int{4, 7, 10},
		},
		{
			name:    "negative step",
			source:  tensor.Shape{5},
			expr:    Of(SliceItem(Slice{}.By(-2))),
			shape:   tensor.Shape{3},
			offsets: []int{4, 2, 0},
		},
		{
			name:    "new axis",
			source:  tensor.Shape{3, 4},
			expr:    Of(NewAxisItem(), SliceItem(Slice{}.By(2))),
			shape:   tensor.Shape{1, 2, 4},
			offsets: []int{0, 1, 2, 3, 8, 9, 10, 11},
		},
		{
			name:   "adjacent fancy keeps position",
			source: tensor.Shape{3, 4, 5},
			expr: Of(SliceItem(Full()),
				ArrayItem(ints(tensor.Shape{2}, 0, 3)), ArrayItem(ints(tensor.Shape{2}, 1, 4))),
			shape:   tensor.Shape{3, 2},
			offsets: []int{1, 19, 21, 39, 41, 59},
		},
		{
			name:   "separated fancy moves to front",
			source: tensor.Shape{3, 4, 5},
			expr: Of(ArrayItem(ints(tensor.Shape{2}, 0, 2)), SliceItem(Full()),
				ArrayItem(ints(tensor.Shape{2}, 1, 1))),
			shape: tensor.Shape{2, 4},
		},
		{
			name:   "int counts as fancy once arrays exist",
			source: tensor.Shape{3, 4, 5},
			expr:   Of(ArrayItem(ints(tensor.Shape{2}, 0, 1)), SliceItem(Full()), IntItem(0)),
			shape:  tensor.Shape{2, 4},
		},
		{
			name:    "int next to fancy stays adjacent",
			source:  tensor.Shape{3, 4},
			expr:    Of(IntItem(1), ArrayItem(ints(tensor.Shape{2}, 0, 2))),
			shape:   tensor.Shape{2},
			offsets: []int{4, 6},
		},
		{
			name:   "fancy arrays broadcast",
			source: tensor.Shape{3, 4},
			expr: Of(ArrayItem(ints(tensor.Shape{2, 1}, 0, 2)),
				ArrayItem(ints(tensor.Shape{3}, 0, 1, 3))),
			shape:   tensor.Shape{2, 3},
			offsets: []int{0, 1, 3, 8, 9, 11},
		},
		{
			name:    "repeated positions",
			source:  tensor.Shape{3},
			expr:    Of(ArrayItem(ints(tensor.Shape{3}, 1, 1, -1))),
			shape:   tensor.Shape{3},
			offsets: []int{1, 1, 2},
		},
		{
			name:    "empty expression selects everything",
			source:  tensor.Shape{2, 2},
			expr:    Of(),
			shape:   tensor.Shape{2, 2},
			offsets: []int{0, 1, 2, 3},
		},
		{
			name:    "empty slice",
			source:  tensor.Shape{4, 2},
			expr:    Of(SliceItem(Span(3, 1))),
			shape:   tensor.Shape{0, 2},
			offsets: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.source, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, sel.Shape)
			if tt.offsets != nil {
				assert.Equal(t, tt.offsets, sel.Offsets())
			}
			shape, err := ResultShape(tt.source, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, shape)
		})
	}
}

func TestSelectErrors(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		_, err := Select(tensor.Shape{3}, Of(IntItem(3)))
		var rErr *IndexOutOfRangeError
		require.True(t, errors.As(err, &rErr), "got %v", err)
		assert.Equal(t, 3, rErr.Size)

		_, err = Select(tensor.Shape{3}, Of(ArrayItem(ints(tensor.Shape{1}, -4))))
		require.True(t, errors.As(err, &rErr), "got %v", err)
		assert.Equal(t, -4, rErr.Index)
	})
	t.Run("too many indices", func(t *testing.T) {
		_, err := Select(tensor.Shape{3}, Of(IntItem(0), IntItem(0)))
		var mErr *MalformedIndexSpecError
		require.True(t, errors.As(err, &mErr), "got %v", err)
	})
	t.Run("boolean mask", func(t *testing.T) {
		mask := must.M1(tensor.FromSlice([]bool{true, false, true}, tensor.Shape{3}))
		_, err := Select(tensor.Shape{3}, Of(ArrayItem(mask)))
		var uErr *UnsupportedIndexPatternError
		require.True(t, errors.As(err, &uErr), "got %v", err)
		assert.Equal(t, BooleanMaskHint, uErr.Hint)
		assert.Contains(t, err.Error(), "where(")
	})
	t.Run("fancy shapes disagree", func(t *testing.T) {
		_, err := Select(tensor.Shape{4, 4}, Of(
			ArrayItem(ints(tensor.Shape{2}, 0, 1)), ArrayItem(ints(tensor.Shape{3}, 0, 1, 2))))
		var bErr *tensor.BroadcastError
		require.True(t, errors.As(err, &bErr), "got %v", err)
		assert.Contains(t, err.Error(), "fancy indices")
	})
}
