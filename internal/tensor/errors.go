package tensor

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by this package (and by the layers
// built on it) matches exactly one of these with errors.Is.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnsupported     = errors.New("unsupported operation")
)

// ShapeError reports incompatible operand dimensions.
type ShapeError struct {
	Op    string // Operation that failed (e.g., "MatMul", "Vector.Dot")
	Left  Shape  // Shape of the receiver or expected shape
	Right Shape  // Shape of the argument or actual shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: %v vs %v", e.Op, ErrShapeMismatch, e.Left, e.Right)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// IndexError reports an element access outside the container bounds.
type IndexError struct {
	Op    string
	Index []int
	Shape Shape
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %v: index %v for shape %v", e.Op, ErrIndexOutOfRange, e.Index, e.Shape)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

func shapeErr(op string, left, right Shape) error {
	return &ShapeError{Op: op, Left: left, Right: right}
}

func indexErr(op string, shape Shape, index ...int) error {
	return &IndexError{Op: op, Index: index, Shape: shape}
}
