// internal/collate/collate.go
// Package collate assembles one designated column from every experiment's
// averaged output into a single cross-experiment table for plotting.
package collate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/logging"
	"github.com/phamill/sweepagg/internal/sweep"
	"github.com/phamill/sweepagg/internal/table"
)

// Skip records one collation target that was omitted, and why. Collation
// never writes partially filled tables: a target is either complete across
// all experiments or absent.
type Skip struct {
	Dest   string
	Reason string
}

// Summary reports which targets were written and which were skipped.
type Summary struct {
	Written []string
	Skipped []Skip
}

// Collator builds the configured collation targets for one batch.
type Collator interface {
	Run(batchRoot string) (*Summary, error)
}

// New selects the collator implementation named by the collation mode.
func New(cfg *appconfig.Config) (Collator, error) {
	layout := sweep.LayoutFrom(cfg.Layout)
	switch cfg.Collation.Mode {
	case appconfig.ModeUnivariate, "":
		return &univariate{
			layout:  layout,
			targets: cfg.Collation.Targets,
			stdDev:  cfg.StdDev,
		}, nil
	case appconfig.ModeBivariate:
		return &bivariate{
			layout:       layout,
			targets:      cfg.Collation.Targets,
			delimiter:    cfg.Collation.CollationDelimiter(),
			rowLabels:    cfg.Collation.RowLabels,
			columnLabels: cfg.Collation.ColumnLabels,
			stdDev:       cfg.StdDev,
		}, nil
	}
	return nil, fmt.Errorf("unknown collation mode %q", cfg.Collation.Mode)
}

// univariate produces, per target, one column per experiment, row-aligned by
// the clock column copied from the first experiment.
type univariate struct {
	layout  sweep.Layout
	targets []appconfig.Target
	stdDev  bool
}

func (u *univariate) Run(batchRoot string) (*Summary, error) {
	experiments, err := u.layout.ListExperimentDirs(batchRoot)
	if err != nil {
		return nil, err
	}
	if len(experiments) == 0 {
		return nil, fmt.Errorf("batch root %s contains no experiment directories", batchRoot)
	}

	collatedDir := u.layout.CollatedPath(batchRoot)
	if err := os.MkdirAll(collatedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create collated dir %s: %w", collatedDir, err)
	}

	summary := &Summary{}
	for _, target := range u.targets {
		if err := u.collateTarget(collatedDir, experiments, target, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (u *univariate) collateTarget(collatedDir string, experiments []string, target appconfig.Target, summary *Summary) error {
	out, skip, err := u.buildTarget(experiments, target, false)
	if err != nil {
		return err
	}
	if skip != nil {
		recordSkip(summary, *skip)
	} else {
		path := filepath.Join(collatedDir, target.Dest+".csv")
		if err := table.WriteFile(out, path); err != nil {
			return err
		}
		summary.Written = append(summary.Written, target.Dest)
	}

	// The stddev companion follows the same all-or-nothing rule, independently.
	if !u.stdDev {
		return nil
	}
	out, skip, err = u.buildTarget(experiments, target, true)
	if err != nil {
		return err
	}
	if skip != nil {
		skip.Dest += ".stddev"
		recordSkip(summary, *skip)
		return nil
	}
	path := filepath.Join(collatedDir, target.Dest+".stddev")
	if err := table.WriteFile(out, path); err != nil {
		return err
	}
	summary.Written = append(summary.Written, target.Dest+".stddev")
	return nil
}

// buildTarget gathers the target column from every experiment. A nil table
// with a non-nil skip means the target must be omitted.
func (u *univariate) buildTarget(experiments []string, target appconfig.Target, stdDev bool) (*table.Table, *Skip, error) {
	sources := make([]*table.Table, 0, len(experiments))
	var missing []string
	for _, experimentDir := range experiments {
		src, found, err := readAveraged(u.layout, experimentDir, target.Table, stdDev)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			missing = append(missing, filepath.Base(experimentDir))
			continue
		}
		sources = append(sources, src)
	}
	if len(missing) > 0 {
		return nil, &Skip{
			Dest:   target.Dest,
			Reason: fmt.Sprintf("source table %s missing from experiments %v", target.Table, missing),
		}, nil
	}

	first := sources[0]
	rows := first.RowCount()
	columns := make([]string, 0, len(experiments)+1)
	columns = append(columns, first.Columns[0])

	values := make([][]float64, 0, len(experiments))
	for i, src := range sources {
		label := filepath.Base(experiments[i])
		if src.RowCount() != rows {
			return nil, &Skip{
				Dest:   target.Dest,
				Reason: fmt.Sprintf("experiment %s has %d rows, expected %d", label, src.RowCount(), rows),
			}, nil
		}
		column, err := src.Column(target.Column)
		if err != nil {
			return nil, &Skip{Dest: target.Dest, Reason: err.Error()}, nil
		}
		columns = append(columns, label)
		values = append(values, column)
	}

	out := table.New(target.Dest, columns)
	out.Rows = make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, 0, len(columns))
		row = append(row, first.Rows[r][0])
		for _, column := range values {
			row = append(row, column[r])
		}
		out.Rows[r] = row
	}
	return out, nil, nil
}

// readAveraged loads one experiment's averaged (or stddev) table. A missing
// file is reported through found=false, not an error; anything else that goes
// wrong reading an existing file is fatal.
func readAveraged(layout sweep.Layout, experimentDir, tableName string, stdDev bool) (*table.Table, bool, error) {
	path := layout.AveragedTablePath(experimentDir, tableName)
	if stdDev {
		path = layout.StdDevTablePath(experimentDir, tableName)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat averaged table %s: %w", path, err)
	}
	t, err := table.ReadFile(path, tableName)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func recordSkip(summary *Summary, skip Skip) {
	logging.LogEvent("[COLLATE] Skipping target %s: %s", skip.Dest, skip.Reason)
	summary.Skipped = append(summary.Skipped, skip)
}
