// internal/table/io.go
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Delimiter separates cells in every table file the pipeline touches.
const Delimiter = ';'

// ReadFile parses a semicolon-delimited table file. The first record is the
// header; every remaining cell must parse as a float64. An empty cell yields
// a MissingValueError, an unparsable one a NonNumericError.
func ReadFile(path, name string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table file %s is empty", path)
	}

	t := &Table{
		Name:    name,
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for r, record := range records[1:] {
		row := make([]float64, len(record))
		for c, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				return nil, &MissingValueError{Path: path, Row: r + 1, Col: c}
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &NonNumericError{Path: path, Row: r + 1, Col: c, Value: cell}
			}
			row[c] = value
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteFile persists a table as a semicolon-delimited file, truncating any
// previous content. Values are formatted with the shortest representation
// that round-trips, so unchanged inputs produce byte-identical output.
func WriteFile(t *Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = Delimiter
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, value := range row {
			record[i] = FormatValue(value)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row of %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush table file %s: %w", path, err)
	}
	return nil
}

// FormatValue renders one cell deterministically.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRecords persists pre-formatted string records with the pipeline
// delimiter. Bivariate collation uses this for cells that hold whole
// per-timestep vectors rather than scalars.
func WriteRecords(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = Delimiter
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write records to %s: %w", path, err)
	}
	return nil
}
