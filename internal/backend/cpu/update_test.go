package cpu

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

func TestIndexedUpdateSetRows(t *testing.T) {
	backend := New()
	x := matrix(t)
	before := x.Clone()
	row := must.M1(tensor.FromSlice([]float32{-1, -2, -3}, tensor.Shape{3}))

	got, err := backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(0, 2))), row, index.Set)
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, -2, -3, 3, 4, 5, -1, -2, -3, 9, 10, 11}, got.AsFloat32())
	assert.True(t, x.Equal(before), "input must not be modified")
}

func TestIndexedUpdateAccumulateRepeats(t *testing.T) {
	backend := New()
	x := must.M1(tensor.FromSlice([]int32{0, 0, 0}, tensor.Shape{3}))
	ones := must.M1(tensor.FromSlice([]int32{1, 1, 1, 1}, tensor.Shape{4}))

	got, err := backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(1, 1, 1, 2))), ones, index.Accumulate)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 3, 1}, got.AsInt32())

	// With Set the last repeated write wins.
	values := must.M1(tensor.FromSlice([]int32{7, 8, 9, 4}, tensor.Shape{4}))
	got, err = backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(1, 1, 1, 2))), values, index.Set)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 9, 4}, got.AsInt32())
}

func TestIndexedUpdateBroadcastsScalar(t *testing.T) {
	backend := New()
	x := matrix(t)
	got, err := backend.IndexedUpdate(x,
		index.Of(index.SliceItem(index.Span(1, 3)), index.SliceItem(index.Slice{}.By(2))),
		tensor.Scalar(float32(100)), index.Accumulate)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2, 103, 4, 105, 106, 7, 108, 9, 10, 11}, got.AsFloat32())
}

func TestIndexedUpdateRejectsBeforeWriting(t *testing.T) {
	backend := New()
	x := matrix(t)
	before := x.Clone()

	bad := must.M1(tensor.FromSlice([]float32{1, 2, 3, 4, 5}, tensor.Shape{5}))
	_, err := backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(0))), bad, index.Set)
	var bErr *tensor.BroadcastError
	require.True(t, errors.As(err, &bErr), "got %v", err)
	assert.Equal(t, tensor.Shape{1, 3}, bErr.Target)

	wrongType := must.M1(tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{3}))
	_, err = backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(0))), wrongType, index.Set)
	require.Error(t, err)

	_, err = backend.IndexedUpdate(x, index.Of(index.ArrayItem(positions(9))), tensor.Scalar(float32(0)), index.Set)
	var rErr *index.IndexOutOfRangeError
	require.True(t, errors.As(err, &rErr), "got %v", err)

	assert.True(t, x.Equal(before))
}

func TestIndexedUpdateBoolAndFloat16(t *testing.T) {
	backend := New()
	flags := must.M1(tensor.FromSlice([]bool{false, true, false}, tensor.Shape{3}))
	got, err := backend.IndexedUpdate(flags, index.Of(index.ArrayItem(positions(0, 1))),
		tensor.Scalar(true), index.Accumulate)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, got.AsBool())

	half := must.M1(tensor.FromSlice([]float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(2)}, tensor.Shape{2}))
	got, err = backend.IndexedUpdate(half, index.Of(index.IntItem(1)),
		tensor.Scalar(float16.Fromfloat32(0.5)), index.Accumulate)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2.5}, got.Values())
}

func TestBroadcastIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, broadcastIndices(tensor.Shape{3}, tensor.Shape{2, 3}))
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, broadcastIndices(tensor.Shape{2, 1}, tensor.Shape{2, 3}))
	assert.Equal(t, []int{0, 0}, broadcastIndices(tensor.Shape{}, tensor.Shape{2}))
	assert.Equal(t, []int{0, 1}, broadcastIndices(tensor.Shape{1, 2}, tensor.Shape{2}))
}
