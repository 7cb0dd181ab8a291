// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the raw tensor representation consumed and produced by
// compiled dispatch closures.
//
// A RawTensor is an untyped, row-major buffer with a Shape and a DataType.
// Tensors handed to a closure are never modified; updates return new tensors.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(x) // float32(2, 2) [1 2 3 4]
package tensor
