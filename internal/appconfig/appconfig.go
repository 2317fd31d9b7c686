// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting the pipeline configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the pipeline configuration file.
	DefaultConfigPath = "config/config.json"

	// ModeUnivariate collates one column per experiment along a single sweep axis.
	ModeUnivariate = "univariate"
	// ModeBivariate collates a grid indexed by two sweep axes.
	ModeBivariate = "bivariate"
)

// Config represents the top-level pipeline configuration.
type Config struct {
	Workers      int             `json:"workers,omitempty"`
	VerifySchema bool            `json:"verifySchema"`
	StdDev       bool            `json:"stddev"`
	FailFast     bool            `json:"failFast"`
	Debug        bool            `json:"debug"`
	LogFile      string          `json:"logFile,omitempty"`
	Layout       LayoutConfig    `json:"layout"`
	Tables       []TableSpec     `json:"tables,omitempty"`
	Collation    CollationConfig `json:"collation"`
	ConfigPath   string          `json:"-"`
}

// LayoutConfig names the reserved leaf directories of the on-disk layout.
type LayoutConfig struct {
	MetricsDir  string `json:"metricsDir,omitempty"`
	AveragedDir string `json:"averagedDir,omitempty"`
	CollatedDir string `json:"collatedDir,omitempty"`
	FramesDir   string `json:"framesDir,omitempty"`
	VideoDir    string `json:"videoDir,omitempty"`
}

// TableSpec configures per-table-name aggregation behavior. An inverted
// table has a designated performance column whose raw values encode a cost
// metric; the reciprocal is taken per run before averaging.
type TableSpec struct {
	Name              string `json:"name"`
	Inverted          bool   `json:"inverted"`
	PerformanceColumn string `json:"performanceColumn,omitempty"`
}

// CollationConfig configures cross-experiment collation.
type CollationConfig struct {
	Mode         string   `json:"mode,omitempty"`
	Delimiter    string   `json:"delimiter,omitempty"`
	RowLabels    []string `json:"rowLabels,omitempty"`
	ColumnLabels []string `json:"columnLabels,omitempty"`
	Targets      []Target `json:"targets,omitempty"`
}

// Target names one (source table, source column) pair to collate and the
// destination file stem to write it under.
type Target struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Dest   string `json:"dest"`
}

// WorkerCount returns the configured worker pool size, falling back to the
// number of CPUs when unset.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// LogFilePath returns the path to the pipeline log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "sweepagg.log"
}

// TableSpecFor returns the aggregation spec registered for a table name, if any.
func (c Config) TableSpecFor(name string) (TableSpec, bool) {
	for _, spec := range c.Tables {
		if spec.Name == name {
			return spec, true
		}
	}
	return TableSpec{}, false
}

// CollationDelimiter returns the delimiter used to split a bivariate
// experiment directory name into its two axis labels.
func (c CollationConfig) CollationDelimiter() string {
	if c.Delimiter == "" {
		return "+"
	}
	return c.Delimiter
}

// Load reads, validates, and decodes the pipeline configuration from the
// specified path. Missing layout directory names receive their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := Validate(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	ApplyDefaults(&config)
	config.ConfigPath = path
	return config, nil
}

// ApplyDefaults fills in layout directory names and the collation mode when
// the configuration document omits them.
func ApplyDefaults(config *Config) {
	layout := &config.Layout
	if layout.MetricsDir == "" {
		layout.MetricsDir = "metrics"
	}
	if layout.AveragedDir == "" {
		layout.AveragedDir = "averaged"
	}
	if layout.CollatedDir == "" {
		layout.CollatedDir = "collated"
	}
	if layout.FramesDir == "" {
		layout.FramesDir = "frames"
	}
	if layout.VideoDir == "" {
		layout.VideoDir = "video"
	}
	if config.Collation.Mode == "" {
		config.Collation.Mode = ModeUnivariate
	}
}
