package tensor

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Vector is a dense, ordered container of float32 values.
//
// Arithmetic methods never modify their operands; they return a new Vector.
// Set is the only in-place mutation.
//
// Example:
//
//	a := tensor.FromSlice([]float32{1, 2, 3})
//	b := tensor.FromSlice([]float32{4, 5, 6})
//	d, err := a.Dot(b) // 32
type Vector struct {
	data []float32
}

// NewVector creates a zero-filled vector of the given length.
func NewVector(length int) *Vector {
	if length < 0 {
		length = 0
	}
	return &Vector{data: make([]float32, length)}
}

// FromSlice creates a vector holding a copy of data.
func FromSlice(data []float32) *Vector {
	v := NewVector(len(data))
	copy(v.data, data)
	return v
}

// Len returns the number of elements.
func (v *Vector) Len() int {
	return len(v.data)
}

// Shape returns the vector's shape ({n}).
func (v *Vector) Shape() Shape {
	return Shape{len(v.data)}
}

// Get returns the element at i, or false if i is out of range.
func (v *Vector) Get(i int) (float32, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	return v.data[i], true
}

// Set stores value at index i.
func (v *Vector) Set(i int, value float32) error {
	if i < 0 || i >= len(v.data) {
		return indexErr("Vector.Set", v.Shape(), i)
	}
	v.data[i] = value
	return nil
}

// Data returns a copy of the elements.
func (v *Vector) Data() []float32 {
	out := make([]float32, len(v.data))
	copy(out, v.data)
	return out
}

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	return FromSlice(v.data)
}

// Dot returns the sum of the pairwise products of v and other.
func (v *Vector) Dot(other *Vector) (float32, error) {
	if len(v.data) != len(other.data) {
		return 0, shapeErr("Vector.Dot", v.Shape(), other.Shape())
	}
	return dot(v.data, other.data), nil
}

// Hadamard returns the element-wise product of v and other.
func (v *Vector) Hadamard(other *Vector) (*Vector, error) {
	return v.zipWith("Vector.Hadamard", other, func(a, b float32) float32 { return a * b })
}

// Add returns the element-wise sum of v and other.
func (v *Vector) Add(other *Vector) (*Vector, error) {
	return v.zipWith("Vector.Add", other, func(a, b float32) float32 { return a + b })
}

// Sub returns the element-wise difference v - other.
func (v *Vector) Sub(other *Vector) (*Vector, error) {
	return v.zipWith("Vector.Sub", other, func(a, b float32) float32 { return a - b })
}

// Scale returns v multiplied by s.
func (v *Vector) Scale(s float32) *Vector {
	return v.Apply(func(x float32) float32 { return x * s })
}

// Apply returns a new vector with f applied to every element.
func (v *Vector) Apply(f func(float32) float32) *Vector {
	out := NewVector(len(v.data))
	for i, x := range v.data {
		out.data[i] = f(x)
	}
	return out
}

// Sum returns the sum of all elements.
func (v *Vector) Sum() float32 {
	var s float32
	for _, x := range v.data {
		s += x
	}
	return s
}

// Max returns the largest element, or -Inf for an empty vector.
func (v *Vector) Max() float32 {
	m := math32.Inf(-1)
	for _, x := range v.data {
		if x > m {
			m = x
		}
	}
	return m
}

// ArgMax returns the index of the largest element (first on ties), or -1
// for an empty vector.
func (v *Vector) ArgMax() int {
	best := -1
	for i, x := range v.data {
		if best < 0 || x > v.data[best] {
			best = i
		}
	}
	return best
}

// Outer returns the outer product v ⊗ other as a len(v)×len(other) matrix.
func (v *Vector) Outer(other *Vector) *Matrix {
	m := NewMatrix(len(v.data), len(other.data))
	for r, a := range v.data {
		row := m.data[r*m.cols : (r+1)*m.cols]
		for c, b := range other.data {
			row[c] = a * b
		}
	}
	return m
}

// Equal reports whether both vectors hold exactly the same values.
func (v *Vector) Equal(other *Vector) bool {
	return v.AllClose(other, 0)
}

// AllClose reports whether both vectors have the same length and every pair
// of elements differs by at most tol.
func (v *Vector) AllClose(other *Vector, tol float32) bool {
	return allClose(v.data, other.data, tol)
}

// String formats the vector as "[1 2 3]".
func (v *Vector) String() string {
	return formatRow(v.data)
}

func (v *Vector) zipWith(op string, other *Vector, f func(a, b float32) float32) (*Vector, error) {
	if len(v.data) != len(other.data) {
		return nil, shapeErr(op, v.Shape(), other.Shape())
	}
	out := NewVector(len(v.data))
	for i := range v.data {
		out.data[i] = f(v.data[i], other.data[i])
	}
	return out, nil
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func allClose(a, b []float32, tol float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func formatRow(data []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", x)
	}
	sb.WriteByte(']')
	return sb.String()
}
