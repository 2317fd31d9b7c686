// internal/sweep/layout_test.go
package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phamill/sweepagg/internal/appconfig"
)

func testLayout() Layout {
	cfg := appconfig.Config{}
	appconfig.ApplyDefaults(&cfg)
	return LayoutFrom(cfg.Layout)
}

func TestRunDirNames(t *testing.T) {
	layout := testLayout()

	names := []string{"run-02", "averaged", "run-01", "frames", "video", "collated", ".hidden"}
	runs := layout.RunDirNames(names)

	if len(runs) != 2 {
		t.Fatalf("expected 2 run dirs, got %v", runs)
	}
	if runs[0] != "run-01" || runs[1] != "run-02" {
		t.Fatalf("expected sorted run dirs, got %v", runs)
	}
}

func TestRunDirNamesEmpty(t *testing.T) {
	layout := testLayout()
	runs := layout.RunDirNames([]string{"averaged", "frames"})
	if len(runs) != 0 {
		t.Fatalf("expected no run dirs, got %v", runs)
	}
}

func TestListExperimentDirs(t *testing.T) {
	layout := testLayout()
	root := t.TempDir()
	for _, name := range []string{"exp-b", "exp-a", "collated"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// A stray file at batch level must be ignored.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := layout.ListExperimentDirs(root)
	if err != nil {
		t.Fatalf("ListExperimentDirs: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 experiments, got %v", dirs)
	}
	if filepath.Base(dirs[0]) != "exp-a" || filepath.Base(dirs[1]) != "exp-b" {
		t.Fatalf("expected sorted experiments, got %v", dirs)
	}
}

func TestListTableNames(t *testing.T) {
	layout := testLayout()
	run := t.TempDir()
	metrics := filepath.Join(run, "metrics")
	if err := os.Mkdir(metrics, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"latency.csv", "throughput.csv", "readme.md"} {
		if err := os.WriteFile(filepath.Join(metrics, name), []byte("a;b\n1;2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := layout.ListTableNames(run)
	if err != nil {
		t.Fatalf("ListTableNames: %v", err)
	}
	if len(names) != 2 || names[0] != "latency" || names[1] != "throughput" {
		t.Fatalf("names = %v", names)
	}
}
