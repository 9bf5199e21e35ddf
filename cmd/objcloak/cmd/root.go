// Package cmd implements the command line interface for the application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/internal/config"
)

var (
	cfgFile string         // --config flag
	cfg     *config.Config // loaded once in PersistentPreRunE

	// Flag variables mapped to config fields for override
	silentMode   bool   // -> cfg.Silent
	abortOnError bool   // -> cfg.AbortOnError
	seed         int64  // -> cfg.Naming.Seed
	strategy     string // -> cfg.Naming.Strategy
	parallelism  int    // -> cfg.Parallelism
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "objcloak",
	Short: "A CLI tool to obfuscate Objective-C and Swift source trees.",
	Long: `objcloak renames the classes, protocols, methods, properties and
constants a project declares, consistently across every file, while
leaving platform and third-party names untouched.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			cfg = loadedCfg
			applyFlagOverrides(cfg, cmd)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// applyFlagOverrides applies command-line flag values to the config struct.
// Only overrides if the flag was explicitly set by the user via cmd.Flags().Changed().
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silentMode
	}
	if cmd.Flags().Changed("abort-on-error") {
		cfg.AbortOnError = abortOnError
	}
	if cmd.Flags().Changed("seed") {
		cfg.Naming.Seed = seed
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Naming.Strategy = strategy
	}
	if cmd.Flags().Changed("parallelism") {
		cfg.Parallelism = parallelism
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Suppress informational output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&abortOnError, "abort-on-error", false, "Stop processing on the first per-file error (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Naming seed for reproducible renames (overrides config)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Naming strategy: random_chars, dictionary, pattern_template, hash_based (overrides config)")
	rootCmd.PersistentFlags().IntVar(&parallelism, "parallelism", 0, "Worker pool size, 0 means one per CPU (overrides config)")
}
