// internal/verify/verify.go
// Package verify cross-checks the per-run output files of one experiment for
// structural consistency before aggregation is attempted.
package verify

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phamill/sweepagg/internal/sweep"
	"github.com/phamill/sweepagg/internal/table"
)

// Kind categorizes a structural mismatch between two runs.
type Kind int

const (
	// MissingTable means a table file exists in one run but not the other.
	MissingTable Kind = iota
	// ColumnMismatch means two runs disagree on a table's column-name set.
	ColumnMismatch
	// RowCountMismatch means two runs disagree on a table's row count.
	RowCountMismatch
	// MissingValue means a table contains an empty cell.
	MissingValue
)

func (k Kind) String() string {
	switch k {
	case MissingTable:
		return "missing table"
	case ColumnMismatch:
		return "column mismatch"
	case RowCountMismatch:
		return "row count mismatch"
	case MissingValue:
		return "missing value"
	}
	return "unknown mismatch"
}

// MismatchError identifies the offending run pair, table name, and mismatch
// category of the first structural violation found. Fatal for the experiment.
type MismatchError struct {
	Kind   Kind
	RunA   string
	RunB   string
	Table  string
	Detail string
}

func (e *MismatchError) Error() string {
	if e.RunB == "" {
		return fmt.Sprintf("schema violation (%s) in run %s, table %s: %s", e.Kind, e.RunA, e.Table, e.Detail)
	}
	return fmt.Sprintf("schema violation (%s) between runs %s and %s, table %s: %s", e.Kind, e.RunA, e.RunB, e.Table, e.Detail)
}

type tableSummary struct {
	columns []string
	rows    int
}

type runSummary struct {
	name   string
	tables map[string]tableSummary
}

// Experiment verifies that every run of one experiment exposes the same set
// of table names and, per table, the same column set (order-insensitive) and
// row count, with no missing cells anywhere. The first violation found is
// returned; verification does not enumerate all of them.
func Experiment(layout sweep.Layout, runDirs []string) error {
	summaries := make([]runSummary, 0, len(runDirs))
	for _, runDir := range runDirs {
		summary, err := summarizeRun(layout, runDir)
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
	}

	for i := 0; i < len(summaries); i++ {
		for j := i + 1; j < len(summaries); j++ {
			if err := comparePair(summaries[i], summaries[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func summarizeRun(layout sweep.Layout, runDir string) (runSummary, error) {
	name := filepath.Base(runDir)
	tableNames, err := layout.ListTableNames(runDir)
	if err != nil {
		return runSummary{}, err
	}

	summary := runSummary{name: name, tables: make(map[string]tableSummary, len(tableNames))}
	for _, tableName := range tableNames {
		t, err := table.ReadFile(layout.TablePath(runDir, tableName), tableName)
		if err != nil {
			if mv, ok := err.(*table.MissingValueError); ok {
				return runSummary{}, &MismatchError{
					Kind:   MissingValue,
					RunA:   name,
					Table:  tableName,
					Detail: fmt.Sprintf("empty cell at row %d, column %d", mv.Row, mv.Col),
				}
			}
			return runSummary{}, err
		}
		columns := append([]string(nil), t.Columns...)
		sort.Strings(columns)
		summary.tables[tableName] = tableSummary{columns: columns, rows: t.RowCount()}
	}
	return summary, nil
}

func comparePair(a, b runSummary) error {
	names := unionTableNames(a, b)
	for _, tableName := range names {
		ta, okA := a.tables[tableName]
		tb, okB := b.tables[tableName]
		if !okA || !okB {
			missing := a.name
			if !okB {
				missing = b.name
			}
			return &MismatchError{
				Kind:   MissingTable,
				RunA:   a.name,
				RunB:   b.name,
				Table:  tableName,
				Detail: fmt.Sprintf("table absent from run %s", missing),
			}
		}
		if !equalColumns(ta.columns, tb.columns) {
			return &MismatchError{
				Kind:   ColumnMismatch,
				RunA:   a.name,
				RunB:   b.name,
				Table:  tableName,
				Detail: fmt.Sprintf("columns [%s] vs [%s]", strings.Join(ta.columns, " "), strings.Join(tb.columns, " ")),
			}
		}
		if ta.rows != tb.rows {
			return &MismatchError{
				Kind:   RowCountMismatch,
				RunA:   a.name,
				RunB:   b.name,
				Table:  tableName,
				Detail: fmt.Sprintf("%d rows vs %d rows", ta.rows, tb.rows),
			}
		}
	}
	return nil
}

func unionTableNames(a, b runSummary) []string {
	seen := make(map[string]struct{}, len(a.tables)+len(b.tables))
	for name := range a.tables {
		seen[name] = struct{}{}
	}
	for name := range b.tables {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
