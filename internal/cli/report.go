// internal/cli/report.go
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/phamill/sweepagg/internal/batch"
)

// renderReport prints the per-experiment batch outcome table.
func renderReport(out io.Writer, report *batch.Report) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-30s %8s %12s  %s", "EXPERIMENT", "TABLES", "DURATION", "OUTCOME")))
	for _, result := range report.Results {
		line := fmt.Sprintf("%-30s %8d %12s  ", result.Experiment, result.Tables, result.Duration.Round(time.Millisecond))
		switch {
		case result.Skipped:
			fmt.Fprintln(out, line+skipStyle.Render("skipped"))
		case result.Err != nil:
			fmt.Fprintln(out, line+failStyle.Render("failed"))
		default:
			fmt.Fprintln(out, line+okStyle.Render("ok"))
		}
	}
	fmt.Fprintf(out, "\n%d processed, %d failed, %d skipped\n",
		report.Processed(), len(report.Failures()), report.SkippedCount())
}
