package index

import (
	"strconv"
	"strings"

	"github.com/born-ml/subtensor/internal/tensor"
)

// ItemKind tags the variant held by an Item.
type ItemKind int

// Resolved index item kinds.
const (
	ItemInt ItemKind = iota
	ItemSlice
	ItemNewAxis
	ItemArray
)

// Item is one resolved entry of an Expr.
type Item struct {
	Kind  ItemKind
	Int   int               // ItemInt
	Slice Slice             // ItemSlice
	Array *tensor.RawTensor // ItemArray: integer positions or a boolean mask.
}

// IntItem, SliceItem, NewAxisItem and ArrayItem build Items directly, for
// callers that assemble expressions without a Spec.
func IntItem(i int) Item { return Item{Kind: ItemInt, Int: i} }
func SliceItem(s Slice) Item { return Item{Kind: ItemSlice, Slice: s} }
func NewAxisItem() Item { return Item{Kind: ItemNewAxis} }
func ArrayItem(a *tensor.RawTensor) Item { return Item{Kind: ItemArray, Array: a} }

func (it Item) String() string {
	switch it.Kind {
	case ItemInt:
		return strconv.Itoa(it.Int)
	case ItemSlice:
		return it.Slice.String()
	case ItemNewAxis:
		return "newaxis"
	case ItemArray:
		if it.Array == nil {
			return "array<nil>"
		}
		return "array<" + it.Array.DType().String() + it.Array.Shape().String() + ">"
	}
	return "<invalid>"
}

// Expr is a realized indexing expression. It exists for the duration of one
// closure invocation.
//
// Tuple is false when the expression holds exactly one item: the item is used
// unwrapped, as in x[i], rather than as a one-element tuple x[(i,)]. Backends
// built on Select treat both forms identically.
type Expr struct {
	Items []Item
	Tuple bool
}

// Of builds an Expr from items with the same unwrapping rule as Normalize.
func Of(items ...Item) Expr {
	return Expr{Items: items, Tuple: len(items) != 1}
}

// Single returns the unwrapped item of a one-item expression.
func (e Expr) Single() (Item, bool) {
	if e.Tuple || len(e.Items) != 1 {
		return Item{}, false
	}
	return e.Items[0], true
}

// HasArrays reports whether any item is a fancy array.
func (e Expr) HasArrays() bool {
	for _, it := range e.Items {
		if it.Kind == ItemArray {
			return true
		}
	}
	return false
}

func (e Expr) String() string {
	parts := make([]string, len(e.Items))
	for i, it := range e.Items {
		parts[i] = it.String()
	}
	if e.Tuple {
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return strings.Join(parts, ", ")
}
