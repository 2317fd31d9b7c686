// internal/collate/bivariate.go
package collate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/sweep"
	"github.com/phamill/sweepagg/internal/table"
)

// bivariate produces, per target, a grid indexed by the two sweep axes'
// labels. Each cell holds the entire per-timestep vector of the source
// column, joined with commas inside the semicolon-delimited cell.
type bivariate struct {
	layout       sweep.Layout
	targets      []appconfig.Target
	delimiter    string
	rowLabels    []string
	columnLabels []string
	stdDev       bool
}

func (b *bivariate) Run(batchRoot string) (*Summary, error) {
	experiments, err := b.layout.ListExperimentDirs(batchRoot)
	if err != nil {
		return nil, err
	}
	if len(experiments) == 0 {
		return nil, fmt.Errorf("batch root %s contains no experiment directories", batchRoot)
	}

	index, err := b.indexExperiments(experiments)
	if err != nil {
		return nil, err
	}

	collatedDir := b.layout.CollatedPath(batchRoot)
	if err := os.MkdirAll(collatedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create collated dir %s: %w", collatedDir, err)
	}

	summary := &Summary{}
	for _, target := range b.targets {
		if err := b.collateTarget(collatedDir, index, target, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// indexExperiments parses each experiment directory name into its two axis
// labels. A name that does not split into exactly two labels is a
// configuration error, not a skippable condition.
func (b *bivariate) indexExperiments(experiments []string) (map[string]string, error) {
	index := make(map[string]string, len(experiments))
	for _, experimentDir := range experiments {
		name := filepath.Base(experimentDir)
		parts := strings.Split(name, b.delimiter)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("experiment name %q does not split into two axis labels on %q", name, b.delimiter)
		}
		index[parts[0]+"\x00"+parts[1]] = experimentDir
	}
	return index, nil
}

func (b *bivariate) collateTarget(collatedDir string, index map[string]string, target appconfig.Target, summary *Summary) error {
	skip, err := b.writeGrid(collatedDir, index, target, false)
	if err != nil {
		return err
	}
	if skip != nil {
		recordSkip(summary, *skip)
	} else {
		summary.Written = append(summary.Written, target.Dest)
	}

	if !b.stdDev {
		return nil
	}
	skip, err = b.writeGrid(collatedDir, index, target, true)
	if err != nil {
		return err
	}
	if skip != nil {
		skip.Dest += ".stddev"
		recordSkip(summary, *skip)
		return nil
	}
	summary.Written = append(summary.Written, target.Dest+".stddev")
	return nil
}

// writeGrid builds and persists one grid. It returns a non-nil Skip when any
// cell's source is unavailable; in that case nothing is written.
func (b *bivariate) writeGrid(collatedDir string, index map[string]string, target appconfig.Target, stdDev bool) (*Skip, error) {
	records := make([][]string, 0, len(b.rowLabels)+1)
	header := append([]string{"label"}, b.columnLabels...)
	records = append(records, header)

	var missing []string
	for _, rowLabel := range b.rowLabels {
		record := make([]string, 0, len(b.columnLabels)+1)
		record = append(record, rowLabel)
		for _, columnLabel := range b.columnLabels {
			cell := rowLabel + b.delimiter + columnLabel
			experimentDir, ok := index[rowLabel+"\x00"+columnLabel]
			if !ok {
				missing = append(missing, cell)
				continue
			}
			src, found, err := readAveraged(b.layout, experimentDir, target.Table, stdDev)
			if err != nil {
				return nil, err
			}
			if !found {
				missing = append(missing, cell)
				continue
			}
			column, err := src.Column(target.Column)
			if err != nil {
				return &Skip{Dest: target.Dest, Reason: err.Error()}, nil
			}
			record = append(record, formatVector(column))
		}
		records = append(records, record)
	}
	if len(missing) > 0 {
		return &Skip{
			Dest:   target.Dest,
			Reason: fmt.Sprintf("source table %s unavailable for cells %v", target.Table, missing),
		}, nil
	}

	suffix := ".csv"
	if stdDev {
		suffix = ".stddev"
	}
	path := filepath.Join(collatedDir, target.Dest+suffix)
	if err := table.WriteRecords(path, records); err != nil {
		return nil, err
	}
	return nil, nil
}

// formatVector renders a per-timestep vector as a single cell.
func formatVector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = table.FormatValue(v)
	}
	return strings.Join(parts, ",")
}
