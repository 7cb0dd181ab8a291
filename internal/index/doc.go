// Package index implements the static index grammar used by indexing operator
// nodes and its realization against runtime fancy-index values.
//
// An index is described in two stages:
//
//   - Spec: an ordered list of slots fixed when the operator node is built.
//     Each slot is a static integer position, a static slice, a new-axis marker
//     or a Fancy placeholder.
//   - Expr: the realized expression produced by Normalize at call time, where
//     the Nth Fancy slot is bound to the Nth runtime value.
//
// Select then resolves an Expr against a concrete tensor shape with NumPy
// semantics, producing the shape of the selected region and the source offset
// of every selected element.
//
// Textual grammar accepted by ParseSpec (and produced by Spec.String):
//
//	spec  := "" | slot { "," slot }
//	slot  := INT | slice | "newaxis" | "None" | "?"
//	slice := [INT] ":" [INT] [ ":" [INT] ]
//
// "?" is a Fancy placeholder. Example: "0, 1:5:2, newaxis, ?".
package index
