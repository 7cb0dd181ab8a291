package index

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SlotKind tags the variant held by a Slot.
type SlotKind int

const (
	// SlotInt is a static integer position; it removes its axis.
	SlotInt SlotKind = iota
	// SlotSlice is a static slice of one axis.
	SlotSlice
	// SlotNewAxis inserts an axis of length 1.
	SlotNewAxis
	// SlotFancy is bound at call time to the next runtime fancy-index value.
	SlotFancy
)

// Slot is one entry of a Spec.
type Slot struct {
	Kind  SlotKind
	Int   int   // Valid for SlotInt.
	Slice Slice // Valid for SlotSlice.
}

// Int returns a static integer slot.
func Int(i int) Slot { return Slot{Kind: SlotInt, Int: i} }

// Range returns a static slice slot.
func Range(s Slice) Slot { return Slot{Kind: SlotSlice, Slice: s} }

// NewAxis returns a new-axis slot.
func NewAxis() Slot { return Slot{Kind: SlotNewAxis} }

// Fancy returns a placeholder slot bound at call time.
func Fancy() Slot { return Slot{Kind: SlotFancy} }

func (s Slot) String() string {
	switch s.Kind {
	case SlotInt:
		return strconv.Itoa(s.Int)
	case SlotSlice:
		return s.Slice.String()
	case SlotNewAxis:
		return "newaxis"
	case SlotFancy:
		return "?"
	}
	return "<invalid>"
}

// Spec is the static, ordered index description attached to an operator node.
type Spec []Slot

// NumFancy counts the Fancy placeholders, i.e. the number of runtime values
// Normalize expects.
func (s Spec) NumFancy() int {
	n := 0
	for _, slot := range s {
		if slot.Kind == SlotFancy {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of s.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}
	return append(Spec(nil), s...)
}

// Validate checks the parts of s that do not depend on runtime values.
func (s Spec) Validate() error {
	for i, slot := range s {
		switch slot.Kind {
		case SlotInt, SlotNewAxis, SlotFancy:
		case SlotSlice:
			if slot.Slice.HasStep && slot.Slice.Step == 0 {
				return malformed(s, "slot %d: slice step cannot be zero", i)
			}
		default:
			return malformed(s, "slot %d: unknown slot kind %d", i, slot.Kind)
		}
	}
	return nil
}

// String renders s in the grammar accepted by ParseSpec.
func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, slot := range s {
		parts[i] = slot.String()
	}
	return strings.Join(parts, ", ")
}

// ParseSpec parses the textual index grammar documented in the package comment.
func ParseSpec(text string) (Spec, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Spec{}, nil
	}
	fields := strings.Split(text, ",")
	spec := make(Spec, 0, len(fields))
	for i, field := range fields {
		slot, err := parseSlot(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "index spec %q, slot %d", text, i)
		}
		spec = append(spec, slot)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseSlot(field string) (Slot, error) {
	switch field {
	case "?":
		return Fancy(), nil
	case "newaxis", "None":
		return NewAxis(), nil
	case "":
		return Slot{}, errors.New("empty slot")
	}
	if !strings.Contains(field, ":") {
		i, err := strconv.Atoi(field)
		if err != nil {
			return Slot{}, errors.Errorf("invalid integer slot %q", field)
		}
		return Int(i), nil
	}
	parts := strings.Split(field, ":")
	if len(parts) > 3 {
		return Slot{}, errors.Errorf("invalid slice %q: too many colons", field)
	}
	var sl Slice
	bounds := []struct {
		v   *int
		has *bool
	}{{&sl.Start, &sl.HasStart}, {&sl.Stop, &sl.HasStop}, {&sl.Step, &sl.HasStep}}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return Slot{}, errors.Errorf("invalid slice bound %q in %q", part, field)
		}
		*bounds[i].v, *bounds[i].has = v, true
	}
	return Range(sl), nil
}

// WriteMode selects how an indexed update combines with existing values.
type WriteMode int

const (
	// Set replaces the selected positions. With repeated positions the last
	// write wins.
	Set WriteMode = iota
	// Accumulate adds to the selected positions. Repeated positions accumulate.
	Accumulate
)

func (m WriteMode) String() string {
	switch m {
	case Set:
		return "set"
	case Accumulate:
		return "add"
	}
	return "unknown"
}

// ParseWriteMode is the inverse of WriteMode.String; "inc" and "accumulate"
// are accepted as aliases of "add".
func ParseWriteMode(name string) (WriteMode, error) {
	switch strings.ToLower(name) {
	case "set", "":
		return Set, nil
	case "add", "inc", "accumulate":
		return Accumulate, nil
	}
	return 0, errors.Errorf("unknown write mode %q", name)
}
