package index

import (
	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/tensor"
)

// Selection is an Expr resolved against a concrete source shape.
//
// It follows NumPy indexing: slices keep their axis, integer positions drop
// it, new-axis markers insert a length-1 axis, and fancy arrays are broadcast
// together into a block of axes. Once any fancy array is present, integer
// positions are treated as 0-d fancy indices. The block is placed where the
// first fancy index appears if all fancy indices are adjacent, otherwise it
// leads the result. Axes not covered by the expression are kept whole.
type Selection struct {
	// Shape of the selected region. It is the result shape of a read and the
	// shape an update value must broadcast to.
	Shape tensor.Shape

	source tensor.Shape
	base   int
	axes   []axisMap
	arrays []fancyAxis
}

type axisMap struct {
	stride int // Source elements per step along a basic axis.
	block  int // Position inside the fancy block, -1 for basic axes.
}

type fancyAxis struct {
	stride    int   // Source stride of the indexed axis.
	positions []int // In-range positions, row-major in the index's own shape.
	strides   []int // Per block axis stride into positions, 0 where broadcast.
}

// Select resolves expr against a source tensor of the given shape.
//
// Errors: *MalformedIndexSpecError when expr indexes more axes than shape has,
// *IndexOutOfRangeError for positions outside an axis, *tensor.BroadcastError
// when fancy arrays cannot be broadcast together and
// *UnsupportedIndexPatternError for boolean masks.
func Select(shape tensor.Shape, expr Expr) (*Selection, error) {
	consumed, hasArray := 0, false
	for i, it := range expr.Items {
		switch it.Kind {
		case ItemNewAxis:
			continue
		case ItemArray:
			if it.Array == nil {
				return nil, malformed(nil, "item %d: nil fancy array", i)
			}
			if it.Array.DType() == tensor.Bool {
				return nil, &UnsupportedIndexPatternError{Pattern: "boolean mask " + it.String(), Hint: BooleanMaskHint}
			}
			if !it.Array.DType().IsInteger() {
				return nil, malformed(nil, "item %d: fancy array has dtype %s", i, it.Array.DType())
			}
			hasArray = true
		case ItemSlice:
			if it.Slice.HasStep && it.Slice.Step == 0 {
				return nil, malformed(nil, "item %d: slice step cannot be zero", i)
			}
		case ItemInt:
		default:
			return nil, malformed(nil, "item %d: unknown item kind %d", i, it.Kind)
		}
		consumed++
	}
	if consumed > len(shape) {
		return nil, malformed(nil, "too many indices: %d indices for a tensor of rank %d", consumed, len(shape))
	}
	advanced := func(it Item) bool {
		return it.Kind == ItemArray || (hasArray && it.Kind == ItemInt)
	}

	var block tensor.Shape
	first, last, count := -1, -1, 0
	for i, it := range expr.Items {
		if !advanced(it) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		count++
		own := tensor.Shape{}
		if it.Kind == ItemArray {
			own = it.Array.Shape()
		}
		if block == nil {
			block = own.Clone()
			continue
		}
		b, _, err := tensor.BroadcastShapes(block, own)
		if err != nil {
			var bErr *tensor.BroadcastError
			if errors.As(err, &bErr) {
				bErr.Reason = "fancy indices could not be broadcast together"
			}
			return nil, err
		}
		block = b
	}
	adjacent := count > 0 && last-first+1 == count

	sel := &Selection{source: shape.Clone(), Shape: tensor.Shape{}}
	srcStrides := shape.ComputeStrides()
	emitBlock := func() {
		for j, d := range block {
			sel.Shape = append(sel.Shape, d)
			sel.axes = append(sel.axes, axisMap{block: j})
		}
	}
	if count > 0 && !adjacent {
		emitBlock()
	}

	axis := 0
	for i, it := range expr.Items {
		switch {
		case it.Kind == ItemNewAxis:
			sel.Shape = append(sel.Shape, 1)
			sel.axes = append(sel.axes, axisMap{block: -1})
			continue
		case advanced(it):
			if adjacent && i == first {
				emitBlock()
			}
			fa, err := newFancyAxis(it, axis, shape[axis], srcStrides[axis], block)
			if err != nil {
				return nil, err
			}
			sel.arrays = append(sel.arrays, fa)
		case it.Kind == ItemSlice:
			start, _, step, n := it.Slice.Indices(shape[axis])
			if n > 0 {
				sel.base += start * srcStrides[axis]
			}
			sel.Shape = append(sel.Shape, n)
			sel.axes = append(sel.axes, axisMap{stride: step * srcStrides[axis], block: -1})
		case it.Kind == ItemInt:
			pos, err := normalizePosition(it.Int, axis, shape[axis])
			if err != nil {
				return nil, err
			}
			sel.base += pos * srcStrides[axis]
		}
		axis++
	}
	for ; axis < len(shape); axis++ {
		sel.Shape = append(sel.Shape, shape[axis])
		sel.axes = append(sel.axes, axisMap{stride: srcStrides[axis], block: -1})
	}
	return sel, nil
}

// ResultShape returns the shape of the region expr selects from a tensor of
// the given shape.
func ResultShape(shape tensor.Shape, expr Expr) (tensor.Shape, error) {
	sel, err := Select(shape, expr)
	if err != nil {
		return nil, err
	}
	return sel.Shape, nil
}

func newFancyAxis(it Item, axis, size, stride int, block tensor.Shape) (fancyAxis, error) {
	var positions []int
	own := tensor.Shape{}
	if it.Kind == ItemInt {
		positions = []int{it.Int}
	} else {
		var err error
		if positions, err = it.Array.Ints(); err != nil {
			return fancyAxis{}, err
		}
		own = it.Array.Shape()
	}
	for k, p := range positions {
		pos, err := normalizePosition(p, axis, size)
		if err != nil {
			return fancyAxis{}, err
		}
		positions[k] = pos
	}

	ownStrides := own.ComputeStrides()
	strides := make([]int, len(block))
	offset := len(block) - len(own)
	for j := range block {
		oj := j - offset
		if oj < 0 || own[oj] == 1 {
			continue
		}
		strides[j] = ownStrides[oj]
	}
	return fancyAxis{stride: stride, positions: positions, strides: strides}, nil
}

// normalizePosition wraps a negative position once and rejects anything still
// outside [0, size).
func normalizePosition(p, axis, size int) (int, error) {
	pos := p
	if pos < 0 {
		pos += size
	}
	if pos < 0 || pos >= size {
		return 0, &IndexOutOfRangeError{Index: p, Axis: axis, Size: size}
	}
	return pos, nil
}

// Source returns the shape the selection was resolved against.
func (s *Selection) Source() tensor.Shape {
	return s.source
}

// NumElements returns the number of selected elements.
func (s *Selection) NumElements() int {
	return s.Shape.NumElements()
}

// Offsets returns, for every element of the selected region in row-major
// order, its element offset in the (contiguous, row-major) source tensor.
// Offsets may repeat when fancy arrays repeat positions.
func (s *Selection) Offsets() []int {
	n := s.Shape.NumElements()
	offsets := make([]int, n)
	if n == 0 {
		return offsets
	}
	idx := make([]int, len(s.Shape))
	ks := make([]int, len(s.arrays))
	for i := 0; i < n; i++ {
		off := s.base
		clear(ks)
		for a, m := range s.axes {
			c := idx[a]
			if m.block < 0 {
				off += c * m.stride
				continue
			}
			for j := range s.arrays {
				ks[j] += c * s.arrays[j].strides[m.block]
			}
		}
		for j, fa := range s.arrays {
			off += fa.positions[ks[j]] * fa.stride
		}
		offsets[i] = off

		for a := len(idx) - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < s.Shape[a] {
				break
			}
			idx[a] = 0
		}
	}
	return offsets
}
