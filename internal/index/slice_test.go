package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceIndices(t *testing.T) {
	tests := []struct {
		name  string
		s     Slice
		n     int
		want  []int
		count int
	}{
		{"full", Full(), 4, []int{0, 1, 2, 3}, 4},
		{"start stop step", Span(1, 5).By(2), 10, []int{1, 3}, 2},
		{"stop only", Slice{}.To(2), 5, []int{0, 1}, 2},
		{"negative start", Slice{}.From(-2), 5, []int{3, 4}, 2},
		{"clamped stop", Span(2, 100), 4, []int{2, 3}, 2},
		{"reverse", Slice{}.By(-1), 4, []int{3, 2, 1, 0}, 4},
		{"reverse step two", Slice{}.By(-2), 5, []int{4, 2, 0}, 3},
		{"reverse bounded", Span(3, 0).By(-1), 5, []int{3, 2, 1}, 3},
		{"empty", Span(3, 1), 5, []int{}, 0},
		{"zero length axis", Full(), 0, []int{}, 0},
		{"far negative", Span(-100, 2), 4, []int{0, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, count := tt.s.Indices(tt.n)
			assert.Equal(t, tt.count, count)
			assert.Equal(t, tt.want, tt.s.Positions(tt.n))
		})
	}
}

func TestSliceString(t *testing.T) {
	assert.Equal(t, ":", Full().String())
	assert.Equal(t, "1:5:2", Span(1, 5).By(2).String())
	assert.Equal(t, ":3", Slice{}.To(3).String())
	assert.Equal(t, "::-1", Slice{}.By(-1).String())
	assert.True(t, Full().IsFull())
	assert.True(t, Slice{}.By(1).IsFull())
	assert.False(t, Slice{}.By(2).IsFull())
}
