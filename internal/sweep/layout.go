// internal/sweep/layout.go
// Package sweep knows the on-disk layout of a parameter sweep: which
// subdirectories of a batch are experiments, and which subdirectories of an
// experiment are genuine simulation runs rather than auxiliary artifacts.
package sweep

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phamill/sweepagg/internal/appconfig"
)

// Layout names the reserved leaf directories that must never be treated as
// run or experiment directories.
type Layout struct {
	MetricsDir  string
	AveragedDir string
	CollatedDir string
	FramesDir   string
	VideoDir    string
}

// LayoutFrom builds a Layout from the configuration.
func LayoutFrom(cfg appconfig.LayoutConfig) Layout {
	return Layout{
		MetricsDir:  cfg.MetricsDir,
		AveragedDir: cfg.AveragedDir,
		CollatedDir: cfg.CollatedDir,
		FramesDir:   cfg.FramesDir,
		VideoDir:    cfg.VideoDir,
	}
}

// reserved reports whether a directory name belongs to the auxiliary set an
// experiment directory may contain alongside its runs.
func (l Layout) reserved(name string) bool {
	switch name {
	case l.AveragedDir, l.CollatedDir, l.FramesDir, l.VideoDir:
		return true
	}
	return false
}

// RunDirNames filters an experiment directory listing down to the names of
// genuine run directories. Pure; an empty result is valid.
func (l Layout) RunDirNames(names []string) []string {
	runs := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") || l.reserved(name) {
			continue
		}
		runs = append(runs, name)
	}
	sort.Strings(runs)
	return runs
}

// ListRunDirs lists the run directories of one experiment, sorted by name.
func (l Layout) ListRunDirs(experimentDir string) ([]string, error) {
	entries, err := os.ReadDir(experimentDir)
	if err != nil {
		return nil, fmt.Errorf("read experiment dir %s: %w", experimentDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	runs := l.RunDirNames(names)
	paths := make([]string, len(runs))
	for i, name := range runs {
		paths[i] = filepath.Join(experimentDir, name)
	}
	return paths, nil
}

// ListExperimentDirs lists the experiment directories of one batch, sorted by
// name. The batch-level collated directory is excluded; it is never an
// experiment.
func (l Layout) ListExperimentDirs(batchRoot string) ([]string, error) {
	entries, err := os.ReadDir(batchRoot)
	if err != nil {
		return nil, fmt.Errorf("read batch root %s: %w", batchRoot, err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == l.CollatedDir {
			continue
		}
		paths = append(paths, filepath.Join(batchRoot, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// MetricsPath returns the per-run metrics directory of a run.
func (l Layout) MetricsPath(runDir string) string {
	return filepath.Join(runDir, l.MetricsDir)
}

// AveragedPath returns the averaged-output directory of an experiment.
func (l Layout) AveragedPath(experimentDir string) string {
	return filepath.Join(experimentDir, l.AveragedDir)
}

// CollatedPath returns the collated-output directory of a batch.
func (l Layout) CollatedPath(batchRoot string) string {
	return filepath.Join(batchRoot, l.CollatedDir)
}

// ListTableNames returns the table names (file stems) present in one run's
// metrics directory, sorted.
func (l Layout) ListTableNames(runDir string) ([]string, error) {
	dir := l.MetricsPath(runDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read metrics dir %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// TablePath returns the path of one table file inside a run's metrics directory.
func (l Layout) TablePath(runDir, tableName string) string {
	return filepath.Join(l.MetricsPath(runDir), tableName+".csv")
}

// AveragedTablePath returns the path of one averaged table file.
func (l Layout) AveragedTablePath(experimentDir, tableName string) string {
	return filepath.Join(l.AveragedPath(experimentDir), tableName+".csv")
}

// StdDevTablePath returns the path of one standard-deviation companion file.
func (l Layout) StdDevTablePath(experimentDir, tableName string) string {
	return filepath.Join(l.AveragedPath(experimentDir), tableName+".stddev")
}
