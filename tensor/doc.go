// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 vectors and matrices used by the
// network code.
//
// # Overview
//
// This package contains:
//   - Vector: a dense rank-1 array with element-wise arithmetic and Dot
//   - Matrix: a dense row-major rank-2 array with MatMul, MatVec and Transpose
//   - AxisIterator: single-pass row or column walks over a Matrix
//   - Errors: ErrShapeMismatch, ErrIndexOutOfRange, ErrUnsupported
//
// # Basic Usage
//
//	import "github.com/born-ml/mlp/tensor"
//
//	func main() {
//	    a, _ := tensor.FromFlat(2, 2, []float32{1, 2, 3, 4})
//	    b, _ := tensor.FromFlat(2, 2, []float32{5, 6, 7, 8})
//
//	    c, err := a.MatMul(b) // [[19 22] [43 50]]
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(c)
//	}
//
// # Shapes
//
// Binary operations never broadcast. Operands of the wrong shape produce an
// error that wraps ErrShapeMismatch; the operands are left untouched:
//
//	_, err := tensor.FromSlice([]float32{1, 2}).Add(tensor.NewVector(3))
//	errors.Is(err, tensor.ErrShapeMismatch) // true
//
// # Ownership
//
// Every operation returns a new value. Row, Col, Data and the iterators
// return copies; RowView is the only accessor that aliases matrix storage,
// and its capacity is capped at the row length.
package tensor
