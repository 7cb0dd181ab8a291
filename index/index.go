// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package index describes how operator nodes index into tensors.
//
// A Spec is the static part, fixed when a node is built: integer positions,
// slices, new-axis markers and Fancy placeholders. Normalize binds the
// placeholders to the runtime values of one call and produces an Expr that
// backends execute.
//
// Example:
//
//	spec, _ := index.ParseSpec("1:, ?")  // x[1:, ilist]
//	expr, err := index.Normalize(spec, []any{ilist})
package index

import (
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/tensor"
)

// Static spec types.
type (
	Spec     = index.Spec
	Slot     = index.Slot
	SlotKind = index.SlotKind
	Slice    = index.Slice
)

// Slot kinds.
const (
	SlotInt     SlotKind = index.SlotInt
	SlotSlice   SlotKind = index.SlotSlice
	SlotNewAxis SlotKind = index.SlotNewAxis
	SlotFancy   SlotKind = index.SlotFancy
)

// Runtime expression types.
type (
	Expr     = index.Expr
	Item     = index.Item
	ItemKind = index.ItemKind
)

// WriteMode selects how an indexed update combines with existing values.
type WriteMode = index.WriteMode

// Write modes.
const (
	Set        WriteMode = index.Set
	Accumulate WriteMode = index.Accumulate
)

// Errors.
type (
	MalformedIndexSpecError      = index.MalformedIndexSpecError
	UnsupportedIndexPatternError = index.UnsupportedIndexPatternError
	IndexOutOfRangeError         = index.IndexOutOfRangeError
)

// Hints attached to *UnsupportedIndexPatternError.
const (
	BooleanMaskHint  = index.BooleanMaskHint
	DynamicSliceHint = index.DynamicSliceHint
)

// Of builds an Expr directly from items, for callers that bypass Normalize.
func Of(items ...Item) Expr { return index.Of(items...) }

// ArrayItem returns a fancy-array item.
func ArrayItem(a *tensor.RawTensor) Item { return index.ArrayItem(a) }

// SliceItem returns a slice item.
func SliceItem(s Slice) Item { return index.SliceItem(s) }

// IntItem returns an integer position item.
func IntItem(i int) Item { return index.IntItem(i) }

// Int returns a static integer slot.
func Int(i int) Slot { return index.Int(i) }

// Range returns a static slice slot.
func Range(s Slice) Slot { return index.Range(s) }

// NewAxis returns a new-axis slot.
func NewAxis() Slot { return index.NewAxis() }

// Fancy returns a placeholder slot bound at call time.
func Fancy() Slot { return index.Fancy() }

// Full returns the slice selecting a whole axis.
func Full() Slice { return index.Full() }

// Span returns start:stop.
func Span(start, stop int) Slice { return index.Span(start, stop) }

// ParseSpec parses specs such as "1:, ?, newaxis, ::-1".
func ParseSpec(text string) (Spec, error) { return index.ParseSpec(text) }

// ParseWriteMode parses "set" or "add".
func ParseWriteMode(name string) (WriteMode, error) { return index.ParseWriteMode(name) }

// Normalize binds the Fancy slots of spec to fancy, in order.
func Normalize(spec Spec, fancy []any) (Expr, error) { return index.Normalize(spec, fancy) }

// ResultShape returns the shape x[expr] has for a source of the given shape.
func ResultShape(shape tensor.Shape, expr Expr) (tensor.Shape, error) {
	return index.ResultShape(shape, expr)
}
