package index

import (
	"github.com/born-ml/subtensor/internal/tensor"
)

// Normalize binds the runtime fancy-index values to spec and returns the
// realized expression.
//
// Static slots are copied as they are. The Nth Fancy slot binds to fancy[N],
// which may be:
//   - an integer *tensor.RawTensor of rank >= 1: a fancy array;
//   - a 0-d integer tensor or a Go integer: a dynamic integer position;
//   - a Slice (for example produced by a MakeSlice closure): a dynamic slice;
//   - a boolean tensor: a mask, which Select rejects.
//
// A single-slot spec yields an unwrapped expression (Tuple == false).
// Normalize neither copies nor modifies the tensors it is given.
func Normalize(spec Spec, fancy []any) (Expr, error) {
	if want := spec.NumFancy(); want != len(fancy) {
		return Expr{}, malformed(spec, "%d fancy index placeholders but %d runtime values", want, len(fancy))
	}
	items := make([]Item, len(spec))
	next := 0
	for i, slot := range spec {
		switch slot.Kind {
		case SlotInt:
			items[i] = IntItem(slot.Int)
		case SlotSlice:
			items[i] = SliceItem(slot.Slice)
		case SlotNewAxis:
			items[i] = NewAxisItem()
		case SlotFancy:
			item, err := bind(spec, next, fancy[next])
			if err != nil {
				return Expr{}, err
			}
			items[i] = item
			next++
		default:
			return Expr{}, malformed(spec, "slot %d: unknown slot kind %d", i, slot.Kind)
		}
	}
	return Of(items...), nil
}

func bind(spec Spec, n int, value any) (Item, error) {
	switch v := value.(type) {
	case *tensor.RawTensor:
		if v == nil {
			return Item{}, malformed(spec, "fancy value %d is a nil tensor", n)
		}
		switch {
		case v.DType() == tensor.Bool:
			return ArrayItem(v), nil
		case !v.DType().IsInteger():
			return Item{}, malformed(spec, "fancy value %d has dtype %s, indices must be integers", n, v.DType())
		case v.Rank() == 0:
			ints, err := v.Ints()
			if err != nil {
				return Item{}, malformed(spec, "fancy value %d: %v", n, err)
			}
			return IntItem(ints[0]), nil
		default:
			return ArrayItem(v), nil
		}
	case Slice:
		if v.HasStep && v.Step == 0 {
			return Item{}, malformed(spec, "fancy value %d: slice step cannot be zero", n)
		}
		return SliceItem(v), nil
	case *Slice:
		if v == nil {
			return Item{}, malformed(spec, "fancy value %d is a nil slice", n)
		}
		return bind(spec, n, *v)
	case int:
		return IntItem(v), nil
	case int32:
		return IntItem(int(v)), nil
	case int64:
		return IntItem(int(v)), nil
	case nil:
		return Item{}, malformed(spec, "fancy value %d is missing", n)
	}
	return Item{}, malformed(spec, "fancy value %d has unsupported type %T", n, value)
}
