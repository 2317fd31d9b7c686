// internal/aggregate/aggregate.go
// Package aggregate reduces the same-named output tables of one experiment's
// runs into an element-wise mean table, with optional reciprocal handling for
// inverted-performance metrics and optional sample standard deviation.
package aggregate

import (
	"fmt"
	"math"

	"github.com/phamill/sweepagg/internal/table"
)

// Options controls the reduction of one table name.
type Options struct {
	// Inverted marks a cost metric: each run's value in PerformanceColumn is
	// reciprocated before the mean is taken, so that smaller raw values read
	// as larger performance. Inversion does not commute with averaging, so it
	// must happen per run, never on the averaged result.
	Inverted          bool
	PerformanceColumn string
	// StdDev additionally produces a sample standard deviation table,
	// rounded to two decimals.
	StdDev bool
}

// Result holds the reduction of one table name.
type Result struct {
	Mean   *table.Table
	StdDev *table.Table
}

// Reduce computes the element-wise mean of the given tables, one per run.
// All inputs must share the first table's column set and row count; a
// mismatch is a hard failure here even when schema verification was skipped
// upstream. Column order follows the first input; other inputs are aligned
// by column name.
func Reduce(name string, inputs []*table.Table, opts Options) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, fmt.Errorf("no input tables for %s", name)
	}

	base := inputs[0]
	rows := base.RowCount()
	cols := len(base.Columns)

	// Per-input mapping from the base column order to that input's columns.
	colIdx := make([][]int, len(inputs))
	for k, in := range inputs {
		if in.RowCount() != rows {
			return Result{}, fmt.Errorf("table %s: run %d has %d rows, run 0 has %d", name, k, in.RowCount(), rows)
		}
		if len(in.Columns) != cols {
			return Result{}, fmt.Errorf("table %s: run %d has %d columns, run 0 has %d", name, k, len(in.Columns), cols)
		}
		idx := make([]int, cols)
		for c, column := range base.Columns {
			pos := in.ColumnIndex(column)
			if pos < 0 {
				return Result{}, fmt.Errorf("table %s: run %d is missing column %q", name, k, column)
			}
			idx[c] = pos
		}
		colIdx[k] = idx
	}

	perfCol := -1
	if opts.Inverted && opts.PerformanceColumn != "" {
		perfCol = base.ColumnIndex(opts.PerformanceColumn)
	}

	mean := table.New(name, append([]string(nil), base.Columns...))
	mean.Rows = make([][]float64, rows)
	n := float64(len(inputs))

	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			var sum float64
			for k, in := range inputs {
				value := in.Rows[r][colIdx[k][c]]
				if c == perfCol {
					value = 1 / value
				}
				sum += value
			}
			row[c] = sum / n
		}
		mean.Rows[r] = row
	}

	result := Result{Mean: mean}
	if opts.StdDev {
		result.StdDev = sampleStdDev(name, inputs, colIdx, mean, perfCol)
	}
	return result, nil
}

// sampleStdDev computes the per-cell sample standard deviation over the runs,
// rounded to two decimals. A single run yields all zeros.
func sampleStdDev(name string, inputs []*table.Table, colIdx [][]int, mean *table.Table, perfCol int) *table.Table {
	rows := mean.RowCount()
	cols := len(mean.Columns)

	stddev := table.New(name, append([]string(nil), mean.Columns...))
	stddev.Rows = make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		if len(inputs) > 1 {
			for c := 0; c < cols; c++ {
				var sum float64
				for k, in := range inputs {
					value := in.Rows[r][colIdx[k][c]]
					if c == perfCol {
						value = 1 / value
					}
					diff := value - mean.Rows[r][c]
					sum += diff * diff
				}
				row[c] = round2(math.Sqrt(sum / float64(len(inputs)-1)))
			}
		}
		stddev.Rows[r] = row
	}
	return stddev
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
