package frame

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ReadTableCSV loads a Table from a CSV file. The first column holds the
// int64 row identifiers and every other column is parsed as float64.
func ReadTableCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table file %s has no header row", path)
	}

	header := records[0]
	if len(header) < 1 {
		return nil, fmt.Errorf("table file %s has an empty header row", path)
	}
	rows := records[1:]

	index := make([]int64, len(rows))
	cols := make([][]float64, len(header)-1)
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}

	for i, record := range rows {
		if len(record) != len(header) {
			return nil, fmt.Errorf("table file %s row %d has %d fields, want %d",
				path, i+2, len(record), len(header))
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("table file %s row %d: bad identifier %q: %w",
				path, i+2, record[0], err)
		}
		index[i] = id
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("table file %s row %d column %s: bad value %q: %w",
					path, i+2, header[j], record[j], err)
			}
			cols[j-1][i] = v
		}
	}

	table := NewTable(index)
	for j, name := range header[1:] {
		if err := table.AddFloat(name, cols[j]); err != nil {
			return nil, fmt.Errorf("table file %s: %w", path, err)
		}
	}
	return table, nil
}
