// Package trace provides the diagnostic sink used on fatal validation
// paths: offending matrix rows are written out as labeled CSV artifacts
// so operators can inspect the exact inputs that failed.
package trace

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/travelsim/choice-core/internal/frame"
)

// Tracer writes labeled tabular diagnostics. Implementations decide the
// format and destination; callers only supply a label and the rows to dump.
type Tracer interface {
	// WriteMatrix dumps the given row positions of a matrix under a label
	WriteMatrix(label string, m *frame.Matrix, rows []int) error
}

// NopTracer discards all diagnostics
type NopTracer struct{}

// WriteMatrix does nothing
func (NopTracer) WriteMatrix(string, *frame.Matrix, []int) error {
	return nil
}

// CSVTracer writes diagnostics as CSV files under a directory,
// one file per label.
type CSVTracer struct {
	dir string
}

// NewCSVTracer creates a tracer writing to the given directory,
// creating it if needed.
func NewCSVTracer(dir string) (*CSVTracer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory %s: %w", dir, err)
	}
	return &CSVTracer{dir: dir}, nil
}

// WriteMatrix writes <dir>/<label>.csv holding the selected rows with a
// chooser_id column followed by one column per alternative.
func (t *CSVTracer) WriteMatrix(label string, m *frame.Matrix, rows []int) error {
	path := filepath.Join(t.dir, label+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, 0, m.NumCols()+1)
	header = append(header, "chooser_id")
	for _, col := range m.Cols() {
		header = append(header, strconv.FormatInt(col, 10))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write trace file %s: %w", path, err)
	}

	record := make([]string, len(header))
	for _, i := range rows {
		record[0] = strconv.FormatInt(m.Rows()[i], 10)
		for j := 0; j < m.NumCols(); j++ {
			record[j+1] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write trace file %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush trace file %s: %w", path, err)
	}
	return nil
}
