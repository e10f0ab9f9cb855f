// Package frame provides the labeled in-memory tables the choice models
// operate on: a Matrix of float64 values with chooser row labels and
// alternative column labels, a Series of per-chooser results, and a Table
// of arbitrary attribute columns.
package frame

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNonUniqueIndex indicates that row or column identifiers are not unique.
// Sampling and lookup correctness depend on unique identifiers, so any
// operation that detects a duplicate fails before doing work.
var ErrNonUniqueIndex = errors.New("index is not unique")

// Matrix is a two-dimensional float64 matrix with int64 row and column
// labels. Rows are choosers and columns are alternatives.
type Matrix struct {
	rows []int64
	cols []int64
	data *mat.Dense
}

// NewMatrix creates a labeled matrix from row-major data.
// len(data) must equal len(rows)*len(cols) and both label axes must be unique.
func NewMatrix(rows, cols []int64, data []float64) (*Matrix, error) {
	if len(data) != len(rows)*len(cols) {
		return nil, fmt.Errorf("matrix data has %d values, want %d (%d rows x %d cols)",
			len(data), len(rows)*len(cols), len(rows), len(cols))
	}
	if !uniqueInt64(rows) {
		return nil, fmt.Errorf("matrix rows: %w", ErrNonUniqueIndex)
	}
	if !uniqueInt64(cols) {
		return nil, fmt.Errorf("matrix cols: %w", ErrNonUniqueIndex)
	}
	m := &Matrix{
		rows: append([]int64(nil), rows...),
		cols: append([]int64(nil), cols...),
	}
	// gonum rejects zero-sized dimensions; an empty matrix keeps a nil Dense
	if len(rows) > 0 && len(cols) > 0 {
		m.data = mat.NewDense(len(rows), len(cols), append([]float64(nil), data...))
	}
	return m, nil
}

// NewMatrixZero creates a labeled matrix filled with zeros
func NewMatrixZero(rows, cols []int64) (*Matrix, error) {
	return NewMatrix(rows, cols, make([]float64, len(rows)*len(cols)))
}

// Rows returns the row labels (chooser identifiers)
func (m *Matrix) Rows() []int64 {
	return m.rows
}

// Cols returns the column labels (alternative identifiers)
func (m *Matrix) Cols() []int64 {
	return m.cols
}

// NumRows returns the number of rows
func (m *Matrix) NumRows() int {
	return len(m.rows)
}

// NumCols returns the number of columns
func (m *Matrix) NumCols() int {
	return len(m.cols)
}

// At returns the value at row position i, column position j
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Set stores a value at row position i, column position j
func (m *Matrix) Set(i, j int, v float64) {
	m.data.Set(i, j, v)
}

// RawRow returns a mutable view of row position i, nil when the matrix
// has no columns
func (m *Matrix) RawRow(i int) []float64 {
	if m.data == nil {
		return nil
	}
	return m.data.RawRowView(i)
}

// Dense returns the underlying gonum matrix
func (m *Matrix) Dense() *mat.Dense {
	return m.data
}

// Clone returns a deep copy with the same labels
func (m *Matrix) Clone() *Matrix {
	clone := &Matrix{
		rows: append([]int64(nil), m.rows...),
		cols: append([]int64(nil), m.cols...),
	}
	if m.data != nil {
		clone.data = mat.NewDense(len(m.rows), len(m.cols), nil)
		clone.data.Copy(m.data)
	}
	return clone
}

// RowSums returns the sum of each row
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, len(m.rows))
	if m.data == nil {
		return sums
	}
	for i := range m.rows {
		sums[i] = floats.Sum(m.data.RawRowView(i))
	}
	return sums
}

// Apply replaces every value with fn(value), in place
func (m *Matrix) Apply(fn func(float64) float64) {
	if m.data == nil {
		return
	}
	raw := m.data.RawMatrix()
	for i := range raw.Data {
		raw.Data[i] = fn(raw.Data[i])
	}
}

func uniqueInt64(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
