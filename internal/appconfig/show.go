// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg *Config) {
	if cfg == nil || cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}
	if cfg == nil {
		return
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Workers:        %d\n", cfg.WorkerCount())
	fmt.Fprintf(out, "  Verify Schema:  %v\n", cfg.VerifySchema)
	fmt.Fprintf(out, "  StdDev Output:  %v\n", cfg.StdDev)
	fmt.Fprintf(out, "  Fail Fast:      %v\n", cfg.FailFast)
	fmt.Fprintf(out, "  Debug:          %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:       %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Metrics Dir:    %s\n", cfg.Layout.MetricsDir)
	fmt.Fprintf(out, "  Averaged Dir:   %s\n", cfg.Layout.AveragedDir)
	fmt.Fprintf(out, "  Collated Dir:   %s\n", cfg.Layout.CollatedDir)

	if len(cfg.Tables) > 0 {
		fmt.Fprintln(out, "  Tables:")
		for _, spec := range cfg.Tables {
			if spec.Inverted {
				fmt.Fprintf(out, "    %s (inverted, performance column %q)\n", spec.Name, spec.PerformanceColumn)
			} else {
				fmt.Fprintf(out, "    %s\n", spec.Name)
			}
		}
	}

	fmt.Fprintf(out, "  Collation Mode: %s\n", cfg.Collation.Mode)
	if cfg.Collation.Mode == ModeBivariate {
		fmt.Fprintf(out, "  Axis Delimiter: %q\n", cfg.Collation.CollationDelimiter())
		fmt.Fprintf(out, "  Row Labels:     %s\n", strings.Join(cfg.Collation.RowLabels, ", "))
		fmt.Fprintf(out, "  Column Labels:  %s\n", strings.Join(cfg.Collation.ColumnLabels, ", "))
	}
	for _, target := range cfg.Collation.Targets {
		fmt.Fprintf(out, "  Target:         %s/%s -> %s\n", target.Table, target.Column, target.Dest)
	}
}
