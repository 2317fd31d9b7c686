// internal/average/average.go
// Package average orchestrates the averaging of one experiment directory:
// optional schema verification, per-table reduction, and persistence of the
// averaged output.
package average

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/phamill/sweepagg/internal/aggregate"
	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/logging"
	"github.com/phamill/sweepagg/internal/sweep"
	"github.com/phamill/sweepagg/internal/table"
	"github.com/phamill/sweepagg/internal/verify"
)

// Averager averages the runs of experiment directories. It only ever writes
// beneath an experiment's own averaged-output path.
type Averager struct {
	layout       sweep.Layout
	verifySchema bool
	stdDev       bool
	specFor      func(string) (appconfig.TableSpec, bool)
}

// New builds an Averager from the pipeline configuration.
func New(cfg *appconfig.Config) *Averager {
	return &Averager{
		layout:       sweep.LayoutFrom(cfg.Layout),
		verifySchema: cfg.VerifySchema,
		stdDev:       cfg.StdDev,
		specFor:      cfg.TableSpecFor,
	}
}

// Layout exposes the on-disk layout the averager operates on.
func (a *Averager) Layout() sweep.Layout {
	return a.layout
}

// Run averages every output table of one experiment directory and persists
// the results into its averaged-output subdirectory, overwriting any prior
// averaged output. It returns the number of tables averaged. Any schema
// violation or reduction failure aborts this experiment.
func (a *Averager) Run(experimentDir string) (int, error) {
	experiment := filepath.Base(experimentDir)

	runDirs, err := a.layout.ListRunDirs(experimentDir)
	if err != nil {
		return 0, err
	}
	if len(runDirs) == 0 {
		return 0, fmt.Errorf("experiment %s has no run directories", experiment)
	}

	if a.verifySchema {
		logging.LogPhase("verify", experiment, "", fmt.Sprintf("%d runs", len(runDirs)))
		if err := verify.Experiment(a.layout, runDirs); err != nil {
			return 0, err
		}
	}

	tableNames, err := a.enumerateTableNames(runDirs)
	if err != nil {
		return 0, err
	}
	if len(tableNames) == 0 {
		return 0, fmt.Errorf("experiment %s has no output tables", experiment)
	}

	averagedDir := a.layout.AveragedPath(experimentDir)
	if err := os.MkdirAll(averagedDir, 0o755); err != nil {
		return 0, fmt.Errorf("create averaged dir %s: %w", averagedDir, err)
	}

	for _, tableName := range tableNames {
		if err := a.averageTable(experimentDir, runDirs, tableName); err != nil {
			return 0, err
		}
	}

	logging.LogPhase("average", experiment, "", fmt.Sprintf("%d tables from %d runs", len(tableNames), len(runDirs)))
	return len(tableNames), nil
}

// enumerateTableNames collects the distinct table names across all runs.
func (a *Averager) enumerateTableNames(runDirs []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, runDir := range runDirs {
		names, err := a.layout.ListTableNames(runDir)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (a *Averager) averageTable(experimentDir string, runDirs []string, tableName string) error {
	inputs := make([]*table.Table, 0, len(runDirs))
	for _, runDir := range runDirs {
		t, err := table.ReadFile(a.layout.TablePath(runDir, tableName), tableName)
		if err != nil {
			return err
		}
		inputs = append(inputs, t)
	}

	opts := aggregate.Options{StdDev: a.stdDev}
	if spec, ok := a.specFor(tableName); ok && spec.Inverted {
		opts.Inverted = true
		opts.PerformanceColumn = spec.PerformanceColumn
	}

	result, err := aggregate.Reduce(tableName, inputs, opts)
	if err != nil {
		return err
	}

	if err := table.WriteFile(result.Mean, a.layout.AveragedTablePath(experimentDir, tableName)); err != nil {
		return err
	}
	if result.StdDev != nil {
		if err := table.WriteFile(result.StdDev, a.layout.StdDevTablePath(experimentDir, tableName)); err != nil {
			return err
		}
	}
	return nil
}
