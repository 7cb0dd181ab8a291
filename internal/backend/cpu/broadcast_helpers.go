package cpu

import (
	"github.com/born-ml/subtensor/internal/tensor"
)

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Dimensions of size 1 and missing leading dimensions get stride 0.
// inShape may carry extra leading dimensions of size 1, which are dropped.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	for len(inShape) > len(outShape) && inShape[0] == 1 {
		inShape = inShape[1:]
	}
	origStrides := inShape.ComputeStrides()
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	for i := range outShape {
		inIdx := i - offset
		if inIdx < 0 || inShape[inIdx] == 1 {
			continue
		}
		strides[i] = origStrides[inIdx]
	}
	return strides
}

// broadcastIndices returns, for every element of outShape in row-major order,
// the flat index of the inShape element that broadcasts onto it.
func broadcastIndices(inShape, outShape tensor.Shape) []int {
	n := outShape.NumElements()
	out := make([]int, n)
	if n == 0 {
		return out
	}
	strides := broadcastStrides(inShape, outShape)
	idx := make([]int, len(outShape))
	flat := 0
	for i := 0; i < n; i++ {
		out[i] = flat
		for d := len(outShape) - 1; d >= 0; d-- {
			idx[d]++
			flat += strides[d]
			if idx[d] < outShape[d] {
				break
			}
			flat -= idx[d] * strides[d]
			idx[d] = 0
		}
	}
	return out
}
