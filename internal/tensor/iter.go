package tensor

// Axis selects the direction of an AxisIterator.
type Axis int

// Iteration axes.
const (
	RowAxis Axis = iota
	ColAxis
)

// String returns "row" or "col".
func (a Axis) String() string {
	switch a {
	case RowAxis:
		return "row"
	case ColAxis:
		return "col"
	default:
		return "unknown"
	}
}

// AxisIterator walks a matrix one row or one column at a time.
//
// Each call to Next yields a freshly allocated Vector, so callers may keep
// or modify it. The iterator is single pass: once exhausted it stays
// exhausted.
//
//	it := m.Rows()
//	for row, ok := it.Next(); ok; row, ok = it.Next() {
//	    ...
//	}
type AxisIterator struct {
	matrix *Matrix
	axis   Axis
	index  int
}

// Axis returns the iteration direction.
func (it *AxisIterator) Axis() Axis {
	return it.axis
}

// Len returns the total number of items (rows or columns).
func (it *AxisIterator) Len() int {
	if it.axis == RowAxis {
		return it.matrix.rows
	}
	return it.matrix.cols
}

// Remaining returns how many items Next will still yield.
func (it *AxisIterator) Remaining() int {
	return it.Len() - it.index
}

// Next returns the next snapshot, or false when exhausted.
func (it *AxisIterator) Next() (*Vector, bool) {
	if it.index >= it.Len() {
		return nil, false
	}
	i := it.index
	it.index++

	m := it.matrix
	if it.axis == RowAxis {
		return FromSlice(m.data[i*m.cols : (i+1)*m.cols]), true
	}
	return m.col(i), true
}
