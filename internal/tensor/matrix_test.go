package tensor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func mustFlat(t *testing.T, rows, cols int, data ...float32) *Matrix {
	t.Helper()
	m, err := FromFlat(rows, cols, data)
	require.NoError(t, err)
	return m
}

func randomMatrix(rng *rand.Rand, rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.data {
		m.data[i] = float32(rng.NormFloat64())
	}
	return m
}

// toDense converts to a gonum matrix used as the reference implementation.
func toDense(m *Matrix) *mat.Dense {
	data := make([]float64, len(m.data))
	for i, x := range m.data {
		data[i] = float64(x)
	}
	return mat.NewDense(m.rows, m.cols, data)
}

func TestNewMatrix_ZeroFilled(t *testing.T) {
	m := NewMatrix(2, 3)
	assert.Equal(t, Shape{2, 3}, m.Shape())
	assert.Equal(t, make([]float32, 6), m.Data())
}

func TestFromFlat_WrongSize(t *testing.T) {
	_, err := FromFlat(2, 2, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FromFlat(-1, 2, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFromFlat_RoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	m := mustFlat(t, 3, 4, data...)

	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			got, err := m.At(r, c)
			require.NoError(t, err)
			assert.Equal(t, data[r*4+c], got, "cell (%d,%d)", r, c)
		}
	}
}

func TestMatrix_SetOutOfBounds(t *testing.T) {
	m := NewMatrix(2, 2)
	require.NoError(t, m.Set(1, 1, 9))

	// (0, 2) would alias (1, 0) in flat storage and must be rejected.
	assert.ErrorIs(t, m.Set(0, 2, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Set(2, 0, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Set(-1, 0, 1), ErrIndexOutOfRange)

	_, err := m.At(0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, []float32{0, 0, 0, 9}, m.Data())
}

func TestMatrix_RowView(t *testing.T) {
	m := mustFlat(t, 2, 2, 1, 2, 3, 4)

	row, err := m.RowView(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, row)

	row[1] = 20
	_ = append(row, 99) // must not spill into row 1

	assert.Equal(t, []float32{1, 20, 3, 4}, m.Data())

	_, err = m.RowView(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMatrix_RowColSnapshots(t *testing.T) {
	m := mustFlat(t, 2, 3, 1, 2, 3, 4, 5, 6)

	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 6}, row.Data())

	col, err := m.Col(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 6}, col.Data())

	require.NoError(t, col.Set(0, 100))
	v, _ := m.At(0, 2)
	assert.Equal(t, float32(3), v, "snapshot must not alias the matrix")

	_, err = m.Col(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAxisIterator_Rows(t *testing.T) {
	m := mustFlat(t, 3, 3, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	want := [][]float32{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}

	it := m.Rows()
	assert.Equal(t, RowAxis, it.Axis())
	assert.Equal(t, 3, it.Remaining())

	var got [][]float32
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		got = append(got, row.Data())
	}
	assert.Equal(t, want, got)

	// Single pass.
	_, ok := it.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, it.Remaining())
}

func TestAxisIterator_Cols(t *testing.T) {
	m := mustFlat(t, 3, 3, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	want := [][]float32{{0, 3, 6}, {1, 4, 7}, {2, 5, 8}}

	var got [][]float32
	it := m.Cols()
	for col, ok := it.Next(); ok; col, ok = it.Next() {
		got = append(got, col.Data())
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, m.Data(), "source untouched")
}

func TestAxisIterator_NonSquare(t *testing.T) {
	m := NewMatrix(2, 5)
	assert.Equal(t, 2, m.Rows().Len())
	assert.Equal(t, 5, m.Cols().Len())

	col, ok := m.Cols().Next()
	require.True(t, ok)
	assert.Equal(t, 2, col.Len())
}

func TestMatrix_Transpose(t *testing.T) {
	m := mustFlat(t, 3, 2, 1, 2, 3, 4, 5, 6)
	want := mustFlat(t, 2, 3, 1, 3, 5, 2, 4, 6)

	tr := m.Transpose()
	assert.Equal(t, m.NumRows(), tr.NumCols())
	assert.Equal(t, m.NumCols(), tr.NumRows())
	assert.True(t, tr.Equal(want), "got %v", tr)
}

func TestMatrix_TransposeInvolution(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, shape := range [][2]int{{1, 1}, {1, 7}, {4, 3}, {5, 5}} {
		m := randomMatrix(rng, shape[0], shape[1])
		assert.True(t, m.Transpose().Transpose().Equal(m), "shape %v", shape)
	}
}

func TestMatrix_MatMulExample(t *testing.T) {
	a := mustFlat(t, 2, 2, 1, 2, 3, 4)

	p, err := a.MatMul(a)
	require.NoError(t, err)
	assert.True(t, p.Equal(mustFlat(t, 2, 2, 7, 10, 15, 22)), "got %v", p)
}

func TestMatrix_MatMulNonSquare(t *testing.T) {
	a := mustFlat(t, 2, 3, 1, 2, 3, 4, 5, 6)
	b := mustFlat(t, 3, 1, 1, 0, -1)

	p, err := a.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 1}, p.Shape())
	assert.Equal(t, []float32{-2, -2}, p.Data())

	_, err = b.MatMul(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMatrix_MatMulMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	a := randomMatrix(rng, 4, 6)
	b := randomMatrix(rng, 6, 3)

	got, err := a.MatMul(b)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(toDense(a), toDense(b))

	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			v, err := got.At(r, c)
			require.NoError(t, err)
			assert.InDelta(t, want.At(r, c), float64(v), 1e-4)
		}
	}
}

func TestMatrix_MatMulIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, shape := range [][2]int{{1, 1}, {3, 3}, {2, 5}} {
		m := randomMatrix(rng, shape[0], shape[1])
		p, err := m.MatMul(Identity(shape[1]))
		require.NoError(t, err)
		assert.True(t, p.Equal(m), "shape %v", shape)
	}
}

func TestMatrix_AddAssociative(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	a := randomMatrix(rng, 3, 4)
	b := randomMatrix(rng, 3, 4)
	c := randomMatrix(rng, 3, 4)

	ab, err := a.Add(b)
	require.NoError(t, err)
	left, err := ab.Add(c)
	require.NoError(t, err)

	bc, err := b.Add(c)
	require.NoError(t, err)
	right, err := a.Add(bc)
	require.NoError(t, err)

	assert.True(t, left.AllClose(right, 1e-5))
}

func TestMatrix_ElementwiseShapeMismatch(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(3, 2)

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Hadamard(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMatrix_SubScale(t *testing.T) {
	a := mustFlat(t, 1, 3, 1, 2, 3)
	b := mustFlat(t, 1, 3, 1, 1, 1)

	d, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2}, d.Data())
	assert.Equal(t, []float32{-1, -2, -3}, a.Scale(-1).Data())
	assert.Equal(t, []float32{1, 2, 3}, a.Data())
}

func TestMatrix_MatVec(t *testing.T) {
	m := mustFlat(t, 2, 3, 1, 2, 3, 4, 5, 6)

	v, err := m.MatVec(FromSlice([]float32{1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 15}, v.Data())

	_, err = m.MatVec(FromSlice([]float32{1, 1}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "Matrix.MatVec", shapeErr.Op)
}

func TestMatrix_String(t *testing.T) {
	assert.Equal(t, "[[1 2] [3 4]]", mustFlat(t, 2, 2, 1, 2, 3, 4).String())
}

func TestShape(t *testing.T) {
	assert.Equal(t, 12, Shape{3, 4}.NumElements())
	assert.Equal(t, "3x4", Shape{3, 4}.String())
	assert.NoError(t, Shape{0}.Validate())
	assert.Error(t, Shape{1, 2, 3}.Validate())
	assert.Error(t, Shape{}.Validate())
	assert.True(t, Shape{2, 2}.Equal(Shape{2, 2}.Clone()))
	assert.False(t, Shape{2, 2}.Equal(Shape{2}))
}
