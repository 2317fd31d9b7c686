// internal/cli/average.go
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/phamill/sweepagg/internal/batch"
	"github.com/spf13/cobra"
)

var averageCmd = &cobra.Command{
	Use:   "average <batchRoot>",
	Short: "Average every experiment's run outputs in a batch",
	Long: `Average distributes per-experiment averaging across a worker pool: each
experiment's run tables are verified (optionally), reduced to element-wise
means (plus optional standard deviations), and written into the experiment's
averaged-output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		coordinator := batch.NewCoordinator(cfg)

		report, err := coordinator.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		renderReport(os.Stdout, report)
		for _, failure := range report.Failures() {
			color.Red("experiment %s: %v", failure.Experiment, failure.Err)
		}
		return report.Err()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(averageCmd)
}
