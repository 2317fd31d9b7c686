// internal/table/table.go
// Package table holds the in-memory representation of a simulator output
// table and the semicolon-delimited codec used for every file this pipeline
// reads or writes.
package table

import (
	"fmt"
)

// Table is a named 2D numeric table with a header of column names. Row i of
// one run's table aligns with row i of every other run's table of the same
// name, so cells are addressed positionally.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]float64
}

// New returns an empty table with the given name and columns.
func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("table %s has no column %q", t.Name, name)
	}
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// MissingValueError reports an empty cell in a table file, which indicates a
// truncated or corrupt run output.
type MissingValueError struct {
	Path string
	Row  int
	Col  int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing value in %s at row %d, column %d", e.Path, e.Row, e.Col)
}

// NonNumericError reports a cell that could not be parsed as a number. All
// tables are expected to be homogeneously numeric aside from the header.
type NonNumericError struct {
	Path  string
	Row   int
	Col   int
	Value string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("non-numeric value %q in %s at row %d, column %d", e.Value, e.Path, e.Row, e.Col)
}
