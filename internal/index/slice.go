package index

import (
	"strconv"
)

// Slice is a start:stop:step descriptor where every bound is optional.
// An absent bound means "unbounded" in that direction; an absent step is 1.
// The zero value is the full range "::".
type Slice struct {
	Start, Stop, Step          int
	HasStart, HasStop, HasStep bool
}

// Full returns the slice selecting a whole axis.
func Full() Slice { return Slice{} }

// Span returns start:stop.
func Span(start, stop int) Slice {
	return Slice{Start: start, Stop: stop, HasStart: true, HasStop: true}
}

// From returns a copy of s with the start bound set.
func (s Slice) From(start int) Slice {
	s.Start, s.HasStart = start, true
	return s
}

// To returns a copy of s with the stop bound set.
func (s Slice) To(stop int) Slice {
	s.Stop, s.HasStop = stop, true
	return s
}

// By returns a copy of s with the step set.
func (s Slice) By(step int) Slice {
	s.Step, s.HasStep = step, true
	return s
}

// IsFull reports whether s selects every position of any axis in order.
func (s Slice) IsFull() bool {
	return !s.HasStart && !s.HasStop && (!s.HasStep || s.Step == 1)
}

// Indices resolves s against an axis of length n following Python's
// slice.indices: negative bounds count from the end, out-of-range bounds are
// clamped to the axis, and count is the number of selected positions.
// The step must not be zero.
func (s Slice) Indices(n int) (start, stop, step, count int) {
	step = 1
	if s.HasStep {
		step = s.Step
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}

	adjust := func(v int, has bool, def int) int {
		if !has {
			return def
		}
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}
	if step < 0 {
		start = adjust(s.Start, s.HasStart, upper)
		stop = adjust(s.Stop, s.HasStop, lower)
		if stop < start {
			count = (start-stop-1)/(-step) + 1
		}
	} else {
		start = adjust(s.Start, s.HasStart, lower)
		stop = adjust(s.Stop, s.HasStop, upper)
		if start < stop {
			count = (stop-start-1)/step + 1
		}
	}
	return start, stop, step, count
}

// Positions lists the positions s selects on an axis of length n.
func (s Slice) Positions(n int) []int {
	start, _, step, count := s.Indices(n)
	out := make([]int, count)
	for i := range out {
		out[i] = start + i*step
	}
	return out
}

// String formats s in start:stop:step notation, omitting absent parts.
func (s Slice) String() string {
	str := ""
	if s.HasStart {
		str += strconv.Itoa(s.Start)
	}
	str += ":"
	if s.HasStop {
		str += strconv.Itoa(s.Stop)
	}
	if s.HasStep {
		str += ":" + strconv.Itoa(s.Step)
	}
	return str
}
