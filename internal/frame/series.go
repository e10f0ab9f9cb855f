package frame

import "fmt"

// Series is an ordered mapping from chooser identifier to an int64 value,
// one entry per chooser. Choice results are returned as a Series mapping
// each chooser to the identifier of its chosen alternative.
type Series struct {
	index  []int64
	values []int64
}

// NewSeries creates a series over the given index and values
func NewSeries(index, values []int64) (*Series, error) {
	if len(index) != len(values) {
		return nil, fmt.Errorf("series has %d values for %d index entries", len(values), len(index))
	}
	return &Series{
		index:  append([]int64(nil), index...),
		values: append([]int64(nil), values...),
	}, nil
}

// Len returns the number of entries
func (s *Series) Len() int {
	return len(s.index)
}

// Index returns the identifiers in order
func (s *Series) Index() []int64 {
	return s.index
}

// Values returns the values in index order
func (s *Series) Values() []int64 {
	return s.values
}

// At returns the index and value at position i
func (s *Series) At(i int) (int64, int64) {
	return s.index[i], s.values[i]
}

// Value returns the value for an identifier, scanning the index
func (s *Series) Value(id int64) (int64, bool) {
	for i, idx := range s.index {
		if idx == id {
			return s.values[i], true
		}
	}
	return 0, false
}
