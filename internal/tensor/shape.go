// Package tensor provides the dense rank-1 and rank-2 float32 containers
// used by the network layer: Vector, Matrix and axis iteration over
// row-major storage.
package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a container.
//
// A Vector has a Shape of length 1 ({n}), a Matrix a Shape of length 2
// ({rows, cols}).
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks that the shape has rank 1 or 2 and no negative dimension.
// Zero-sized dimensions are allowed (an empty Vector is valid).
func (s Shape) Validate() error {
	if len(s) == 0 || len(s) > 2 {
		return fmt.Errorf("invalid rank %d: only vectors and matrices are supported", len(s))
	}
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as "3x4" (matrix) or "3" (vector).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return strings.Join(parts, "x")
}
