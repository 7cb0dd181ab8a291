// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference backend for indexing closures.
//
// # Overview
//
// The CPU backend implements every index pattern the dispatch layer can
// produce:
//   - Integer, slice and new-axis items in any order
//   - Any number of integer index arrays with NumPy broadcasting
//   - Indexed updates in set and add modes with repeated positions
//
// Reads over large selections are split across goroutines. Updates copy their
// input and then write sequentially.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/subtensor/backend/cpu"
//	    "github.com/born-ml/subtensor/dispatch"
//	)
//
//	func main() {
//	    ctx := &dispatch.Context{Backend: cpu.New()}
//	    gather, err := dispatch.Default().Compile(ctx, dispatch.Gather, dispatch.Attributes{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    rows, err := gather(x, positions)
//	}
package cpu
