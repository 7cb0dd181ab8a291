//go:build windows

package webgpu

import (
	"encoding/binary"
	"strings"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// unsupportedHint is attached to patterns this backend does not run.
const unsupportedHint = `The WebGPU backend only runs gathers and updates of whole rows selected by a
rank-1 integer index list on float32 or int32 tensors. Use the CPU backend for
other index patterns.`

// Index reads x[expr] when expr is a single rank-1 integer index list.
func (b *Backend) Index(x *tensor.RawTensor, expr index.Expr) (*tensor.RawTensor, error) {
	idx, err := b.leadingRows(x, expr)
	if err != nil {
		return nil, err
	}
	return b.Take(x, idx)
}

// Take gathers whole rows of x: output[i] = x[idx[i]].
func (b *Backend) Take(x, idx *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := b.checkDType(x, "take"); err != nil {
		return nil, err
	}
	positions, err := rowPositions(x, idx)
	if err != nil {
		return nil, err
	}
	rowSize := x.Shape()[1:].NumElements()
	outShape := append(tensor.Shape{idx.NumElements()}, x.Shape()[1:]...)
	result, err := tensor.NewRaw(outShape, x.DType(), tensor.WebGPU)
	if err != nil {
		return nil, errors.Wrap(err, "take: failed to create result tensor")
	}
	if result.NumElements() == 0 {
		return result, nil
	}

	src := b.createBuffer(x.Data(), wgpu.BufferUsageStorage)
	defer src.Release()
	idxBuf := b.createBuffer(positions, wgpu.BufferUsageStorage)
	defer idxBuf.Release()
	//nolint:gosec // G115: ByteSize is non-negative.
	dstSize := uint64(result.ByteSize())
	dstUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	dst := b.bufferPool.Acquire(dstSize, dstUsage)
	defer b.bufferPool.Release(dst, dstSize, dstUsage)
	//nolint:gosec // G115: sizes were validated against the tensor shape.
	params, paramsSize := b.createParams(uint32(idx.NumElements()), uint32(rowSize))
	defer params.Release()

	b.run("gather_rows", gatherRowsShader, result.NumElements(),
		binding{src, uint64(x.ByteSize())}, //nolint:gosec // G115
		binding{idxBuf, uint64(len(positions))},
		binding{dst, dstSize},
		binding{params, paramsSize})

	data, err := b.readBuffer(dst, dstSize)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), data)
	return result, nil
}

// IndexedUpdate writes or adds value into the rows of x selected by a single
// rank-1 integer index list. value may be a full (len(idx), row...) block, a
// single row shared by every selected row, or a scalar. Accumulate requires
// float32.
func (b *Backend) IndexedUpdate(x *tensor.RawTensor, expr index.Expr, value *tensor.RawTensor,
	mode index.WriteMode) (*tensor.RawTensor, error) {
	if value.DType() != x.DType() {
		return nil, errors.Errorf("indexed update: value dtype %s does not match tensor dtype %s",
			value.DType(), x.DType())
	}
	if err := b.checkDType(x, "indexed update"); err != nil {
		return nil, err
	}
	idx, err := b.leadingRows(x, expr)
	if err != nil {
		return nil, err
	}
	positions, err := rowPositions(x, idx)
	if err != nil {
		return nil, err
	}
	count := idx.NumElements()
	region := append(tensor.Shape{count}, x.Shape()[1:]...)
	if err := tensor.CheckAssignable(region, value.Shape()); err != nil {
		return nil, err
	}
	rowStride, colStride, ok := valueStrides(region, value.Shape())
	if !ok {
		return nil, b.unsupported("partially broadcast update value of shape " + value.Shape().String())
	}

	var name, code string
	switch {
	case mode == index.Set:
		name, code = "scatter_rows_set", scatterShader("u32", "dst[at] = v;")
	case mode == index.Accumulate && x.DType() == tensor.Float32:
		name, code = "scatter_rows_add_f32", scatterShader("f32", "dst[at] = dst[at] + v;")
	case mode == index.Accumulate:
		return nil, b.unsupported("accumulation into " + x.DType().String())
	default:
		return nil, errors.Errorf("indexed update: unknown write mode %d", mode)
	}

	result := x.Clone().WithDevice(tensor.WebGPU)
	if count == 0 || result.NumElements() == 0 {
		return result, nil
	}
	rowSize := x.Shape()[1:].NumElements()

	idxBuf := b.createBuffer(positions, wgpu.BufferUsageStorage)
	defer idxBuf.Release()
	valBuf := b.createBuffer(value.Data(), wgpu.BufferUsageStorage)
	defer valBuf.Release()
	//nolint:gosec // G115: ByteSize is non-negative.
	dstSize := uint64(result.ByteSize())
	dst := b.createBuffer(result.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer dst.Release()
	//nolint:gosec // G115: sizes were validated against the tensor shape.
	params, paramsSize := b.createParams(uint32(count), uint32(rowSize), uint32(rowStride), uint32(colStride))
	defer params.Release()

	b.run(name, code, rowSize,
		binding{idxBuf, uint64(len(positions))},
		binding{valBuf, uint64(value.ByteSize())}, //nolint:gosec // G115
		binding{dst, dstSize},
		binding{params, paramsSize})

	data, err := b.readBuffer(dst, dstSize)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), data)
	return result, nil
}

func scatterShader(elem, op string) string {
	return strings.NewReplacer("{{TYPE}}", elem, "{{OP}}", op).Replace(scatterRowsTemplate)
}

func (b *Backend) checkDType(x *tensor.RawTensor, op string) error {
	if x.DType() != tensor.Float32 && x.DType() != tensor.Int32 {
		return b.unsupported(op + " of " + x.DType().String() + " tensors")
	}
	if x.Rank() == 0 {
		return &index.MalformedIndexSpecError{Reason: "too many indices: cannot index rows of a 0-d tensor"}
	}
	return nil
}

// leadingRows extracts the index list of an expression that selects whole
// rows, or explains why the pattern cannot run here.
func (b *Backend) leadingRows(x *tensor.RawTensor, expr index.Expr) (*tensor.RawTensor, error) {
	items := expr.Items
	// Trailing full slices select whole rows too.
	for len(items) > 1 && items[len(items)-1].Kind == index.ItemSlice && items[len(items)-1].Slice.IsFull() {
		items = items[:len(items)-1]
	}
	if len(items) == 1 && items[0].Kind == index.ItemArray && items[0].Array != nil {
		arr := items[0].Array
		if arr.DType() == tensor.Bool {
			return nil, &index.UnsupportedIndexPatternError{Backend: b.Name(),
				Pattern: "boolean mask " + expr.String(), Hint: index.BooleanMaskHint}
		}
		if arr.DType().IsInteger() && arr.Rank() == 1 {
			return arr, nil
		}
	}
	for _, it := range items {
		if it.Kind == index.ItemSlice && !it.Slice.IsFull() {
			return nil, &index.UnsupportedIndexPatternError{Backend: b.Name(),
				Pattern: "slice " + it.Slice.String() + " in " + expr.String(), Hint: index.DynamicSliceHint}
		}
	}
	if x.Rank() == 0 && len(items) > 0 {
		return nil, &index.MalformedIndexSpecError{Reason: "too many indices for a 0-d tensor"}
	}
	return nil, b.unsupported(expr.String())
}

func (b *Backend) unsupported(pattern string) error {
	return &index.UnsupportedIndexPatternError{Backend: b.Name(), Pattern: pattern, Hint: unsupportedHint}
}

// rowPositions validates positions on the host and encodes them as u32 words.
// Negative positions count from the end.
func rowPositions(x, idx *tensor.RawTensor) ([]byte, error) {
	positions, err := idx.Ints()
	if err != nil {
		return nil, &index.MalformedIndexSpecError{Reason: err.Error()}
	}
	rows := x.Shape()[0]
	out := make([]byte, 4*len(positions))
	for i, p := range positions {
		if p < 0 {
			p += rows
		}
		if p < 0 || p >= rows {
			return nil, &index.IndexOutOfRangeError{Index: positions[i], Axis: 0, Size: rows}
		}
		//nolint:gosec // G115: p is in [0, rows).
		binary.LittleEndian.PutUint32(out[4*i:], uint32(p))
	}
	return out, nil
}

// valueStrides maps a value shape already known to be assignable to region
// onto the word strides of the scatter kernel: the value word for row r and
// column c is r*rowStride + c*colStride. Values whose row part is partially
// broadcast do not fit that form.
func valueStrides(region, value tensor.Shape) (rowStride, colStride int, ok bool) {
	for len(value) > len(region) {
		value = value[1:]
	}
	lead, rowPart := 1, value
	if len(value) == len(region) {
		lead, rowPart = value[0], value[1:]
	}
	rowElems := rowPart.NumElements()
	switch rowElems {
	case region[1:].NumElements():
		colStride = 1
	case 1:
		colStride = 0
	default:
		return 0, 0, false
	}
	if lead == region[0] && lead != 1 {
		rowStride = rowElems
	}
	return rowStride, colStride, true
}
