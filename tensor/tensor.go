// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// Shape represents tensor dimensions, e.g. Shape{3} or Shape{2, 4}.
type Shape = tensor.Shape

// Vector is a dense float32 array of fixed length.
type Vector = tensor.Vector

// Matrix is a dense float32 matrix stored in row-major order.
type Matrix = tensor.Matrix

// Axis selects rows or columns for an AxisIterator.
type Axis = tensor.Axis

// Iteration directions.
const (
	RowAxis = tensor.RowAxis
	ColAxis = tensor.ColAxis
)

// AxisIterator yields copies of a matrix's rows or columns, once.
//
// Example:
//
//	it := m.Rows()
//	for row, ok := it.Next(); ok; row, ok = it.Next() {
//	    fmt.Println(row)
//	}
type AxisIterator = tensor.AxisIterator

// ShapeError describes incompatible operand shapes. It wraps ErrShapeMismatch.
type ShapeError = tensor.ShapeError

// IndexError describes an out-of-range access. It wraps ErrIndexOutOfRange.
type IndexError = tensor.IndexError

// Sentinel errors returned (wrapped) by tensor operations.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrUnsupported     = tensor.ErrUnsupported
)

// NewVector creates a zero-filled vector of the given length.
func NewVector(length int) *Vector {
	return tensor.NewVector(length)
}

// FromSlice creates a vector holding a copy of data.
func FromSlice(data []float32) *Vector {
	return tensor.FromSlice(data)
}

// NewMatrix creates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return tensor.NewMatrix(rows, cols)
}

// FromFlat creates a matrix from row-major data.
// It fails with ErrShapeMismatch unless len(data) == rows*cols.
//
// Example:
//
//	m, err := tensor.FromFlat(2, 3, []float32{1, 2, 3, 4, 5, 6})
func FromFlat(rows, cols int, data []float32) (*Matrix, error) {
	return tensor.FromFlat(rows, cols, data)
}

// Identity creates the n x n identity matrix.
func Identity(n int) *Matrix {
	return tensor.Identity(n)
}
