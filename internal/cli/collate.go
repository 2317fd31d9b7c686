// internal/cli/collate.go
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/phamill/sweepagg/internal/collate"
	"github.com/spf13/cobra"
)

var collateCmd = &cobra.Command{
	Use:   "collate <batchRoot>",
	Short: "Collate averaged output columns across all experiments of a batch",
	Long: `Collate gathers one configured column from every experiment's averaged
output into a single cross-experiment table per target. A target is only
written when every experiment contributes its source table; incomplete
targets are skipped with a warning, never partially filled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		collator, err := collate.New(cfg)
		if err != nil {
			return err
		}

		summary, err := collator.Run(args[0])
		if err != nil {
			return err
		}

		for _, dest := range summary.Written {
			fmt.Printf("wrote %s\n", dest)
		}
		for _, skip := range summary.Skipped {
			color.Yellow("skipped %s: %s", skip.Dest, skip.Reason)
		}
		// Incomplete collation is never fatal; the affected targets are simply absent.
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(collateCmd)
}
