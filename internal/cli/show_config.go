// internal/cli/show_config.go
package cli

import (
	"os"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show pipeline state",
}

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged pipeline configuration",
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(os.Stdout, getConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
