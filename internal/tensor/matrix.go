package tensor

import (
	"strings"
)

// Matrix is a dense rows×cols float32 container in row-major order.
//
// Row r occupies data[r*cols : r*cols+cols]. Like Vector, arithmetic
// methods return new matrices and leave their operands untouched.
//
// Example:
//
//	a, _ := tensor.FromFlat(2, 2, []float32{1, 2, 3, 4})
//	p, _ := a.MatMul(a) // [[7 10] [15 22]]
type Matrix struct {
	data []float32
	rows int
	cols int
}

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{
		data: make([]float32, rows*cols),
		rows: rows,
		cols: cols,
	}
}

// FromFlat creates a rows×cols matrix from row-major data.
// The data is copied; len(data) must equal rows*cols.
func FromFlat(rows, cols int, data []float32) (*Matrix, error) {
	shape := Shape{rows, cols}
	if err := shape.Validate(); err != nil {
		return nil, shapeErr("FromFlat", shape, Shape{len(data)})
	}
	if len(data) != rows*cols {
		return nil, shapeErr("FromFlat", shape, Shape{len(data)})
	}
	m := NewMatrix(rows, cols)
	copy(m.data, data)
	return m, nil
}

// Identity creates the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int {
	return m.rows
}

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int {
	return m.cols
}

// Shape returns {rows, cols}.
func (m *Matrix) Shape() Shape {
	return Shape{m.rows, m.cols}
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) (float32, error) {
	if !m.inBounds(row, col) {
		return 0, indexErr("Matrix.At", m.Shape(), row, col)
	}
	return m.data[row*m.cols+col], nil
}

// Set stores value at (row, col).
func (m *Matrix) Set(row, col int, value float32) error {
	if !m.inBounds(row, col) {
		return indexErr("Matrix.Set", m.Shape(), row, col)
	}
	m.data[row*m.cols+col] = value
	return nil
}

// RowView returns the elements of row i as a slice aliasing the matrix.
//
// WARNING: writes through the slice modify the matrix. The slice capacity is
// capped at the row end, so append never overwrites the next row.
func (m *Matrix) RowView(i int) ([]float32, error) {
	if i < 0 || i >= m.rows {
		return nil, indexErr("Matrix.RowView", m.Shape(), i)
	}
	start := i * m.cols
	end := start + m.cols
	return m.data[start:end:end], nil
}

// Row returns an owned copy of row i.
func (m *Matrix) Row(i int) (*Vector, error) {
	view, err := m.RowView(i)
	if err != nil {
		return nil, err
	}
	return FromSlice(view), nil
}

// Col returns an owned copy of column j.
func (m *Matrix) Col(j int) (*Vector, error) {
	if j < 0 || j >= m.cols {
		return nil, indexErr("Matrix.Col", m.Shape(), j)
	}
	return m.col(j), nil
}

// Rows returns an iterator over row snapshots.
func (m *Matrix) Rows() *AxisIterator {
	return &AxisIterator{matrix: m, axis: RowAxis}
}

// Cols returns an iterator over column snapshots.
func (m *Matrix) Cols() *AxisIterator {
	return &AxisIterator{matrix: m, axis: ColAxis}
}

// Data returns a copy of the row-major elements.
func (m *Matrix) Data() []float32 {
	out := make([]float32, len(m.data))
	copy(out, m.data)
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Transpose returns a new cols×rows matrix with result[c][r] = m[r][c].
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	dst := out.data[:0]
	it := m.Cols()
	for col, ok := it.Next(); ok; col, ok = it.Next() {
		dst = append(dst, col.data...)
	}
	return out
}

// Add returns the element-wise sum m + other.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	return m.zipWith("Matrix.Add", other, func(a, b float32) float32 { return a + b })
}

// Sub returns the element-wise difference m - other.
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	return m.zipWith("Matrix.Sub", other, func(a, b float32) float32 { return a - b })
}

// Hadamard returns the element-wise product of m and other.
func (m *Matrix) Hadamard(other *Matrix) (*Matrix, error) {
	return m.zipWith("Matrix.Hadamard", other, func(a, b float32) float32 { return a * b })
}

// Scale returns m multiplied by s.
func (m *Matrix) Scale(s float32) *Matrix {
	return m.Apply(func(x float32) float32 { return x * s })
}

// Apply returns a new matrix with f applied to every element.
func (m *Matrix) Apply(f func(float32) float32) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, x := range m.data {
		out.data[i] = f(x)
	}
	return out
}

// MatMul computes the matrix product m × other.
//
// For an (M×K) receiver and a (K×N) argument the result is (M×N), with
// result[i][j] = dot(m.row(i), other.col(j)).
func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, shapeErr("Matrix.MatMul", m.Shape(), other.Shape())
	}

	// Columns of the right operand are strided in memory; snapshot them once.
	cols := make([]*Vector, 0, other.cols)
	colIt := other.Cols()
	for col, ok := colIt.Next(); ok; col, ok = colIt.Next() {
		cols = append(cols, col)
	}

	out := NewMatrix(m.rows, other.cols)
	dst := out.data[:0]
	rowIt := m.Rows()
	for row, ok := rowIt.Next(); ok; row, ok = rowIt.Next() {
		for _, col := range cols {
			dst = append(dst, dot(row.data, col.data))
		}
	}
	return out, nil
}

// MatVec computes the product of m (M×K) with a length-K vector, producing
// a length-M vector.
func (m *Matrix) MatVec(v *Vector) (*Vector, error) {
	if m.cols != v.Len() {
		return nil, shapeErr("Matrix.MatVec", m.Shape(), v.Shape())
	}
	out := NewVector(m.rows)
	for r := 0; r < m.rows; r++ {
		out.data[r] = dot(m.data[r*m.cols:(r+1)*m.cols], v.data)
	}
	return out, nil
}

// Equal reports whether both matrices have the same shape and values.
func (m *Matrix) Equal(other *Matrix) bool {
	return m.AllClose(other, 0)
}

// AllClose reports whether both matrices have the same shape and every pair
// of elements differs by at most tol.
func (m *Matrix) AllClose(other *Matrix, tol float32) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	return allClose(m.data, other.data, tol)
}

// String formats the matrix as "[[1 2] [3 4]]".
func (m *Matrix) String() string {
	parts := make([]string, m.rows)
	for r := 0; r < m.rows; r++ {
		parts[r] = formatRow(m.data[r*m.cols : (r+1)*m.cols])
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (m *Matrix) inBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

func (m *Matrix) col(j int) *Vector {
	out := NewVector(m.rows)
	for r := 0; r < m.rows; r++ {
		out.data[r] = m.data[r*m.cols+j]
	}
	return out
}

func (m *Matrix) zipWith(op string, other *Matrix, f func(a, b float32) float32) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, shapeErr(op, m.Shape(), other.Shape())
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = f(m.data[i], other.data[i])
	}
	return out, nil
}
