// internal/collate/collate_test.go
package collate

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/table"
)

func univariateConfig() *appconfig.Config {
	cfg := &appconfig.Config{
		Collation: appconfig.CollationConfig{
			Mode: appconfig.ModeUnivariate,
			Targets: []appconfig.Target{
				{Table: "latency", Column: "X", Dest: "latency_x"},
			},
		},
	}
	appconfig.ApplyDefaults(cfg)
	return cfg
}

// writeAveraged plants an already-averaged table for one experiment.
func writeAveraged(t *testing.T, batchRoot, experiment, tableName, content string) {
	t.Helper()
	dir := filepath.Join(batchRoot, experiment, "averaged")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, tableName+".csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUnivariateCollation(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "n10", "latency", "clock;X\n0;1\n1;2\n")
	writeAveraged(t, root, "n20", "latency", "clock;X\n0;3\n1;4\n")
	writeAveraged(t, root, "n30", "latency", "clock;X\n0;5\n1;6\n")

	collator, err := New(univariateConfig())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 1 || summary.Written[0] != "latency_x" {
		t.Fatalf("written = %v", summary.Written)
	}
	if len(summary.Skipped) != 0 {
		t.Fatalf("skipped = %v", summary.Skipped)
	}

	out, err := table.ReadFile(filepath.Join(root, "collated", "latency_x.csv"), "latency_x")
	if err != nil {
		t.Fatalf("read collated table: %v", err)
	}
	want := []string{"clock", "n10", "n20", "n30"}
	if len(out.Columns) != len(want) {
		t.Fatalf("columns = %v", out.Columns)
	}
	for i, column := range want {
		if out.Columns[i] != column {
			t.Fatalf("columns = %v, want %v", out.Columns, want)
		}
	}
	if out.RowCount() != 2 {
		t.Fatalf("rows = %d", out.RowCount())
	}
	if out.Rows[0][0] != 0 || out.Rows[1][0] != 1 {
		t.Fatalf("clock column = %v", out.Rows)
	}
	if out.Rows[1][2] != 4 {
		t.Fatalf("cell (1, n20) = %v, want 4", out.Rows[1][2])
	}
}

func TestUnivariateSkipsIncompleteTarget(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "n10", "latency", "clock;X\n0;1\n1;2\n")
	writeAveraged(t, root, "n20", "latency", "clock;X\n0;3\n1;4\n")
	// n30 exists but never produced the source table.
	if err := os.MkdirAll(filepath.Join(root, "n30", "averaged"), 0o755); err != nil {
		t.Fatal(err)
	}

	collator, err := New(univariateConfig())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 0 {
		t.Fatalf("written = %v, want none", summary.Written)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Dest != "latency_x" {
		t.Fatalf("skipped = %+v", summary.Skipped)
	}
	if !strings.Contains(summary.Skipped[0].Reason, "n30") {
		t.Fatalf("skip reason should name the missing experiment: %q", summary.Skipped[0].Reason)
	}
	if _, err := os.Stat(filepath.Join(root, "collated", "latency_x.csv")); !os.IsNotExist(err) {
		t.Fatal("a partially available target must not be written")
	}
}

func TestUnivariateStdDevCompanionIndependent(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "n10", "latency", "clock;X\n0;1\n")
	writeAveraged(t, root, "n20", "latency", "clock;X\n0;3\n")
	// Only one experiment has a stddev companion; the primary collation must
	// still be written while the companion is skipped.
	if err := os.WriteFile(filepath.Join(root, "n10", "averaged", "latency.stddev"), []byte("clock;X\n0;0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := univariateConfig()
	cfg.StdDev = true
	collator, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 1 || summary.Written[0] != "latency_x" {
		t.Fatalf("written = %v", summary.Written)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Dest != "latency_x.stddev" {
		t.Fatalf("skipped = %+v", summary.Skipped)
	}
}

func bivariateConfig() *appconfig.Config {
	cfg := &appconfig.Config{
		Collation: appconfig.CollationConfig{
			Mode:         appconfig.ModeBivariate,
			Delimiter:    "+",
			RowLabels:    []string{"small", "large"},
			ColumnLabels: []string{"low", "high"},
			Targets: []appconfig.Target{
				{Table: "latency", Column: "X", Dest: "latency_grid"},
			},
		},
	}
	appconfig.ApplyDefaults(cfg)
	return cfg
}

func TestBivariateCollation(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "small+low", "latency", "clock;X\n0;1\n1;2\n")
	writeAveraged(t, root, "small+high", "latency", "clock;X\n0;3\n1;4\n")
	writeAveraged(t, root, "large+low", "latency", "clock;X\n0;5\n1;6\n")
	writeAveraged(t, root, "large+high", "latency", "clock;X\n0;7\n1;8\n")

	collator, err := New(bivariateConfig())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 1 {
		t.Fatalf("written = %v", summary.Written)
	}

	file, err := os.Open(filepath.Join(root, "collated", "latency_grid.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %v", records)
	}
	if records[0][1] != "low" || records[0][2] != "high" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "small" || records[2][0] != "large" {
		t.Fatalf("row labels = %v, %v", records[1][0], records[2][0])
	}
	// Each cell holds the entire per-timestep vector.
	if records[2][2] != "7,8" {
		t.Fatalf("cell large/high = %q, want \"7,8\"", records[2][2])
	}
}

func TestBivariateSkipsIncompleteGrid(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "small+low", "latency", "clock;X\n0;1\n")
	writeAveraged(t, root, "small+high", "latency", "clock;X\n0;3\n")
	writeAveraged(t, root, "large+low", "latency", "clock;X\n0;5\n")
	// large+high exists but has no averaged source table.
	if err := os.MkdirAll(filepath.Join(root, "large+high", "averaged"), 0o755); err != nil {
		t.Fatal(err)
	}

	collator, err := New(bivariateConfig())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 0 {
		t.Fatalf("written = %v, want none", summary.Written)
	}
	if len(summary.Skipped) != 1 {
		t.Fatalf("skipped = %+v", summary.Skipped)
	}
	if !strings.Contains(summary.Skipped[0].Reason, "large+high") {
		t.Fatalf("skip reason should name the missing cell: %q", summary.Skipped[0].Reason)
	}
	if _, err := os.Stat(filepath.Join(root, "collated", "latency_grid.csv")); !os.IsNotExist(err) {
		t.Fatal("a partially filled grid must not be written")
	}
}

func TestBivariateStdDevCompanionIndependent(t *testing.T) {
	root := t.TempDir()
	for _, exp := range []string{"small+low", "small+high", "large+low", "large+high"} {
		writeAveraged(t, root, exp, "latency", "clock;X\n0;1\n")
	}
	// Only one cell has a stddev companion; the primary grid must still be
	// written while the companion is skipped.
	if err := os.WriteFile(filepath.Join(root, "small+low", "averaged", "latency.stddev"), []byte("clock;X\n0;0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := bivariateConfig()
	cfg.StdDev = true
	collator, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	summary, err := collator.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Written) != 1 || summary.Written[0] != "latency_grid" {
		t.Fatalf("written = %v", summary.Written)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Dest != "latency_grid.stddev" {
		t.Fatalf("skipped = %+v", summary.Skipped)
	}
	if _, err := os.Stat(filepath.Join(root, "collated", "latency_grid.stddev")); !os.IsNotExist(err) {
		t.Fatal("incomplete stddev grid must not be written")
	}
}

func TestBivariateRejectsUnsplittableName(t *testing.T) {
	root := t.TempDir()
	writeAveraged(t, root, "smalllow", "latency", "clock;X\n0;1\n")

	collator, err := New(bivariateConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := collator.Run(root); err == nil {
		t.Fatal("expected error for experiment name without axis delimiter")
	}
}

func TestNewUnknownMode(t *testing.T) {
	cfg := &appconfig.Config{Collation: appconfig.CollationConfig{Mode: "trivariate"}}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown collation mode")
	}
}
