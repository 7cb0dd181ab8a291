package dispatch

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/subtensor/internal/index"
)

// OperatorKind identifies an indexing operator. The zero value is invalid.
type OperatorKind int

// Indexing operators.
const (
	InvalidKind OperatorKind = iota

	// Gather reads whole slices along the leading axis: x[ilist].
	Gather
	// GatherNd reads x[spec], with the spec's Fancy slots bound at run time.
	GatherNd
	// ScatterSet writes y into the rows of x selected by ilist.
	ScatterSet
	// ScatterAdd adds y into the rows of x selected by ilist.
	ScatterAdd
	// ScatterNdSet writes y into x[spec].
	ScatterNdSet
	// ScatterNdAdd adds y into x[spec].
	ScatterNdAdd
	// MakeSlice builds an index.Slice from up to three optional bounds.
	MakeSlice

	// kindLast must stay last: it sizes the registry table.
	kindLast
)

var kindNames = [kindLast]string{
	InvalidKind:  "Invalid",
	Gather:       "Gather",
	GatherNd:     "GatherNd",
	ScatterSet:   "ScatterSet",
	ScatterAdd:   "ScatterAdd",
	ScatterNdSet: "ScatterNdSet",
	ScatterNdAdd: "ScatterNdAdd",
	MakeSlice:    "MakeSlice",
}

var kindSignatures = [kindLast]string{
	Gather:       "(x, ilist) -> x[ilist]",
	GatherNd:     "(x, fancy...) -> x[spec]",
	ScatterSet:   "(x, y, ilist) -> x with x[ilist] = y",
	ScatterAdd:   "(x, y, ilist) -> x with x[ilist] += y",
	ScatterNdSet: "(x, y, fancy...) -> x with x[spec] = y",
	ScatterNdAdd: "(x, y, fancy...) -> x with x[spec] += y",
	MakeSlice:    "([start,] stop[, step]) -> slice",
}

// Signature describes the runtime inputs and the result of the operator.
func (k OperatorKind) Signature() string {
	if !k.Valid() {
		return ""
	}
	return kindSignatures[k]
}

// String returns the operator name.
func (k OperatorKind) String() string {
	if k < 0 || k >= kindLast {
		return "OperatorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Valid reports whether k names an operator.
func (k OperatorKind) Valid() bool {
	return k > InvalidKind && k < kindLast
}

// WriteMode returns the write mode of an update operator, and false for
// operators that do not write.
func (k OperatorKind) WriteMode() (index.WriteMode, bool) {
	switch k {
	case ScatterSet, ScatterNdSet:
		return index.Set, true
	case ScatterAdd, ScatterNdAdd:
		return index.Accumulate, true
	}
	return 0, false
}

// UpdateKind returns the update operator for a write mode. nd selects the
// spec-driven variant over the leading-axis one.
func UpdateKind(nd bool, mode index.WriteMode) OperatorKind {
	switch {
	case nd && mode == index.Accumulate:
		return ScatterNdAdd
	case nd:
		return ScatterNdSet
	case mode == index.Accumulate:
		return ScatterAdd
	default:
		return ScatterSet
	}
}

// AllKinds lists every valid operator kind in enum order.
func AllKinds() []OperatorKind {
	kinds := make([]OperatorKind, 0, kindLast-1)
	for k := InvalidKind + 1; k < kindLast; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseOperatorKind converts an operator name (case-insensitive) to its kind.
func ParseOperatorKind(name string) (OperatorKind, error) {
	for k := InvalidKind + 1; k < kindLast; k++ {
		if strings.EqualFold(name, kindNames[k]) {
			return k, nil
		}
	}
	return InvalidKind, errors.Errorf("unknown operator kind %q", name)
}
