// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/subtensor/tensor"
)

// TestRawTensorAPI verifies the RawTensor alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 6*4, raw.ByteSize())
	assert.True(t, raw.Clone().Equal(raw))
}

func TestConstructors(t *testing.T) {
	x, err := tensor.FromSlice([]int64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, x.DType())
	assert.Equal(t, []int64{1, 2, 3, 4}, x.AsInt64())

	s := tensor.Scalar(float32(7))
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, []float32{7}, s.AsFloat32())

	r, err := tensor.Arange(3, tensor.Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, r.AsInt32())

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)
}

func TestParseDataType(t *testing.T) {
	for _, dt := range []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int32, tensor.Int64, tensor.Uint8, tensor.Bool, tensor.Float16} {
		got, err := tensor.ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	_, err := tensor.ParseDataType("complex64")
	assert.Error(t, err)
}

func TestBroadcastShapes(t *testing.T) {
	out, needed, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 5})
	require.NoError(t, err)
	assert.True(t, needed)
	assert.True(t, out.Equal(tensor.Shape{3, 5}))

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 4}, tensor.Shape{3, 5})
	var be *tensor.BroadcastError
	assert.ErrorAs(t, err, &be)
}
