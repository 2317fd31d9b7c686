// internal/verify/verify_test.go
package verify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/sweep"
)

func testLayout() sweep.Layout {
	cfg := appconfig.Config{}
	appconfig.ApplyDefaults(&cfg)
	return sweep.LayoutFrom(cfg.Layout)
}

// writeRun creates one run directory with the given table files.
func writeRun(t *testing.T, experimentDir, runName string, tables map[string]string) string {
	t.Helper()
	metrics := filepath.Join(experimentDir, runName, "metrics")
	if err := os.MkdirAll(metrics, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range tables {
		if err := os.WriteFile(filepath.Join(metrics, name+".csv"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(experimentDir, runName)
}

func TestExperimentAcceptsMatchingRuns(t *testing.T) {
	layout := testLayout()
	exp := t.TempDir()
	// Same shape and column set; values differ, column order differs too.
	runA := writeRun(t, exp, "run-01", map[string]string{"latency": "clock;mean\n0;1\n1;2\n"})
	runB := writeRun(t, exp, "run-02", map[string]string{"latency": "mean;clock\n5;0\n6;1\n"})

	if err := Experiment(layout, []string{runA, runB}); err != nil {
		t.Fatalf("expected runs to verify, got %v", err)
	}
}

func TestExperimentMissingTable(t *testing.T) {
	layout := testLayout()
	exp := t.TempDir()
	runA := writeRun(t, exp, "run-01", map[string]string{"latency": "clock;mean\n0;1\n"})
	runB := writeRun(t, exp, "run-02", map[string]string{})

	err := Experiment(layout, []string{runA, runB})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Kind != MissingTable {
		t.Fatalf("kind = %v", mismatch.Kind)
	}
	if mismatch.Table != "latency" {
		t.Fatalf("table = %q", mismatch.Table)
	}
}

func TestExperimentColumnMismatch(t *testing.T) {
	layout := testLayout()
	exp := t.TempDir()
	runA := writeRun(t, exp, "run-01", map[string]string{"latency": "clock;mean\n0;1\n"})
	runB := writeRun(t, exp, "run-02", map[string]string{"latency": "clock;p99\n0;1\n"})

	err := Experiment(layout, []string{runA, runB})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Kind != ColumnMismatch {
		t.Fatalf("kind = %v", mismatch.Kind)
	}
}

func TestExperimentRowCountMismatch(t *testing.T) {
	layout := testLayout()
	exp := t.TempDir()
	runA := writeRun(t, exp, "run-01", map[string]string{"latency": "clock;mean\n0;1\n1;2\n"})
	runB := writeRun(t, exp, "run-02", map[string]string{"latency": "clock;mean\n0;1\n"})

	err := Experiment(layout, []string{runA, runB})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Kind != RowCountMismatch {
		t.Fatalf("kind = %v", mismatch.Kind)
	}
	if mismatch.RunA != "run-01" || mismatch.RunB != "run-02" {
		t.Fatalf("runs = %q, %q", mismatch.RunA, mismatch.RunB)
	}
}

func TestExperimentMissingValue(t *testing.T) {
	layout := testLayout()
	exp := t.TempDir()
	runA := writeRun(t, exp, "run-01", map[string]string{"latency": "clock;mean\n0;\n"})

	err := Experiment(layout, []string{runA})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Kind != MissingValue {
		t.Fatalf("kind = %v", mismatch.Kind)
	}
}
