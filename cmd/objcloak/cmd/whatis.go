package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/internal/pipeline"
)

var whatisTargetDir string

// whatisCmd reverses an obfuscated name using a saved mapping file.
var whatisCmd = &cobra.Command{
	Use:   "whatis <obfuscated_name>",
	Short: "Look up the original name for an obfuscated one",
	Long: `Loads the mapping file written by a previous obfuscate run and finds
the original identifier behind the given obfuscated name.

Specify the target directory of the run with --target-dir (-t).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if whatisTargetDir == "" {
			return fmt.Errorf("--target-dir (-t) flag is required")
		}
		info, err := os.Stat(whatisTargetDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("target directory '%s' not found", whatisTargetDir)
			}
			return fmt.Errorf("error checking target directory '%s': %w", whatisTargetDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("target path '%s' is not a directory", whatisTargetDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		name := args[0]

		mappingPath := filepath.Join(whatisTargetDir, cfg.MappingFile)
		mapping, err := pipeline.LoadMapping(mappingPath)
		if err != nil {
			return fmt.Errorf("error loading mapping from %s: %w", whatisTargetDir, err)
		}

		entry, ok := mapping.ReverseLookup(name)
		if !ok {
			// maybe the user pasted the original by mistake; be helpful
			if fwd, fok := mapping.Lookup(name); fok {
				fmt.Printf("'%s' is an original name; it was obfuscated to '%s' (kind: %s)\n",
					name, fwd.Obfuscated, fwd.Kind)
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: obfuscated name '%s' not found in the mapping.\n", name)
			return fmt.Errorf("name not found")
		}

		fmt.Printf("Found: '%s' (kind: %s", entry.Original, entry.Kind)
		if entry.FirstSeenFile != "" {
			fmt.Printf(", declared in %s", entry.FirstSeenFile)
		}
		fmt.Println(")")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whatisCmd)
	whatisCmd.Flags().StringVarP(&whatisTargetDir, "target-dir", "t", "", "Target directory of a previous obfuscate run (required)")
}
