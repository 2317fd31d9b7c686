// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp"
	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "sweepagg",
	Short: "Average and collate batched simulation sweep outputs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := materializeConfig(cmd)
		if err != nil {
			return err
		}
		currentConfig = cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		if cfg.Debug {
			pp.Println(cfg)
		}
		return nil
	},
}

// Execute runs the root command. The log file is closed on every path,
// including a failed subcommand.
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")
	rootCmd.PersistentFlags().Bool("failFast", false, "abort the batch on the first experiment failure")
	rootCmd.PersistentFlags().Bool("stddev", false, "also generate standard-deviation tables")
	rootCmd.PersistentFlags().Bool("verifySchema", false, "cross-check run outputs before averaging")
	rootCmd.PersistentFlags().Int("workers", 0, "worker pool size (0 = number of CPUs)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// materializeConfig produces the merged configuration snapshot the
// subcommands run against: flags override the config file, which overrides
// defaults. A missing config file is fine; anything else that goes wrong
// reading, validating, or decoding one is fatal.
func materializeConfig(cmd *cobra.Command) (*appconfig.Config, error) {
	var cfg appconfig.Config
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		appconfig.ApplyDefaults(&cfg)
	} else {
		loaded, err := appconfig.Load(viper.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("failFast") {
		cfg.FailFast, _ = flags.GetBool("failFast")
	}
	if flags.Changed("stddev") {
		cfg.StdDev, _ = flags.GetBool("stddev")
	}
	if flags.Changed("verifySchema") {
		cfg.VerifySchema, _ = flags.GetBool("verifySchema")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	return &cfg, nil
}

// getConfig returns the loaded pipeline configuration for the subcommands.
func getConfig() *appconfig.Config {
	return currentConfig
}
