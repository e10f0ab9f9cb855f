package frame

import "fmt"

// Table is a labeled attribute table: an int64 row index plus named
// float64 and int64 columns in insertion order. Choosers and alternatives
// arrive as Tables; the interaction sampler produces one.
type Table struct {
	index     []int64
	order     []string
	floatCols map[string][]float64
	intCols   map[string][]int64
}

// NewTable creates an empty table over the given row index
func NewTable(index []int64) *Table {
	return &Table{
		index:     append([]int64(nil), index...),
		floatCols: make(map[string][]float64),
		intCols:   make(map[string][]int64),
	}
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.index)
}

// Index returns the row identifiers in order
func (t *Table) Index() []int64 {
	return t.index
}

// IndexIsUnique reports whether every row identifier is distinct
func (t *Table) IndexIsUnique() bool {
	return uniqueInt64(t.index)
}

// ColumnNames returns the column names in insertion order
func (t *Table) ColumnNames() []string {
	return t.order
}

// HasColumn reports whether a column with the given name exists
func (t *Table) HasColumn(name string) bool {
	_, f := t.floatCols[name]
	_, i := t.intCols[name]
	return f || i
}

// AddFloat adds a float64 column. The column length must match the index.
func (t *Table) AddFloat(name string, values []float64) error {
	if len(values) != len(t.index) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.index))
	}
	if t.HasColumn(name) {
		return fmt.Errorf("duplicate column %s", name)
	}
	t.floatCols[name] = append([]float64(nil), values...)
	t.order = append(t.order, name)
	return nil
}

// AddInt adds an int64 column. The column length must match the index.
func (t *Table) AddInt(name string, values []int64) error {
	if len(values) != len(t.index) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.index))
	}
	if t.HasColumn(name) {
		return fmt.Errorf("duplicate column %s", name)
	}
	t.intCols[name] = append([]int64(nil), values...)
	t.order = append(t.order, name)
	return nil
}

// FloatColumn returns a float64 column by name
func (t *Table) FloatColumn(name string) ([]float64, bool) {
	col, ok := t.floatCols[name]
	return col, ok
}

// IntColumn returns an int64 column by name
func (t *Table) IntColumn(name string) ([]int64, bool) {
	col, ok := t.intCols[name]
	return col, ok
}

// Take returns a new table holding the rows at the given positions, in
// the order given. Positions may repeat.
func (t *Table) Take(positions []int) *Table {
	index := make([]int64, len(positions))
	for i, p := range positions {
		index[i] = t.index[p]
	}
	out := NewTable(index)
	for _, name := range t.order {
		if col, ok := t.floatCols[name]; ok {
			values := make([]float64, len(positions))
			for i, p := range positions {
				values[i] = col[p]
			}
			out.floatCols[name] = values
		} else {
			col := t.intCols[name]
			values := make([]int64, len(positions))
			for i, p := range positions {
				values[i] = col[p]
			}
			out.intCols[name] = values
		}
		out.order = append(out.order, name)
	}
	return out
}

// Filter returns a new table holding the rows for which keep returns true.
// The predicate receives the row position.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var positions []int
	for i := range t.index {
		if keep(i) {
			positions = append(positions, i)
		}
	}
	return t.Take(positions)
}
