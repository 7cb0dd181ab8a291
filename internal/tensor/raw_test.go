package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 24, x.ByteSize())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.Values())

	_, err = FromSlice([]int32{1, 2, 3}, Shape{2, 2})
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	x, err := FromSlice([]int64{1, 2, 3}, Shape{3})
	require.NoError(t, err)
	y := x.Clone()
	y.AsInt64()[0] = 42
	assert.Equal(t, int64(1), x.AsInt64()[0])
	assert.False(t, x.Equal(y))
	y.AsInt64()[0] = 1
	assert.True(t, x.Equal(y))
}

func TestInts(t *testing.T) {
	for _, dtype := range []DataType{Int32, Int64, Uint8} {
		x, err := Arange(4, dtype)
		require.NoError(t, err)
		got, err := x.Ints()
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, got, dtype.String())
	}
	_, err := Scalar(float32(1)).Ints()
	require.Error(t, err)
}

func TestEmptyTensor(t *testing.T) {
	x, err := Zeros(Shape{0, 3}, Float32)
	require.NoError(t, err)
	assert.Empty(t, x.AsFloat32())
	assert.Equal(t, 0, x.ByteSize())
}

func TestFloat16AndParse(t *testing.T) {
	x, err := FromSlice([]float16.Float16{float16.Fromfloat32(1.5)}, Shape{1})
	require.NoError(t, err)
	assert.Equal(t, Float16, x.DType())
	assert.Equal(t, []float32{1.5}, x.Values())

	for _, dt := range []DataType{Float32, Float64, Int32, Int64, Uint8, Bool, Float16} {
		parsed, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}
	_, err = ParseDataType("complex64")
	require.Error(t, err)
}

func TestReshape(t *testing.T) {
	x, err := Arange(6, Int32)
	require.NoError(t, err)
	y, err := x.Reshape(Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, y.Strides())
	_, err = x.Reshape(Shape{4})
	require.Error(t, err)
}
