package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/pipeline"
)

// obfuscateCmd runs the full staged pipeline over a project tree.
var obfuscateCmd = &cobra.Command{
	Use:   "obfuscate <source_dir> <target_dir>",
	Short: "Obfuscate a whole project directory",
	Long: `Walks the source tree, extracts every declared symbol, builds one
project-wide rename table, and writes the rewritten project to the
target directory together with a mapping file for later reversal.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg.SourceDirectory = args[0]
		cfg.TargetDirectory = args[1]

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		// Ctrl-C cancels between files; a cancelled run leaves the
		// parse cache valid.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := p.Run(ctx); err != nil {
			return fmt.Errorf("obfuscation failed: %w", err)
		}

		stats := p.Stats()
		config.PrintInfo("Files rewritten:  %d\n", stats.FilesRewritten)
		config.PrintInfo("Files copied:     %d\n", stats.FilesCopied)
		config.PrintInfo("Symbols found:    %d\n", stats.SymbolsFound)
		config.PrintInfo("Symbols renamed:  %d\n", stats.SymbolsRenamed)
		for tier, n := range stats.SkippedByTier {
			config.PrintInfo("Skipped (%s): %d\n", tier, n)
		}
		config.PrintInfo("Cache hit rate:   %.0f%%\n", stats.CacheHitRate*100)
		if len(stats.Errors) > 0 {
			config.PrintInfo("Files skipped on error: %d\n", len(stats.Errors))
		}
		config.PrintInfo("Seed: %d (pass --seed %d to reproduce)\n", p.Seed(), p.Seed())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(obfuscateCmd)
}
