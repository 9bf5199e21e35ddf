package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/pkg/api"
)

var outputFile string // -o flag

// fileCmd obfuscates one file in isolation, without a project table.
var fileCmd = &cobra.Command{
	Use:   "file <source_file>",
	Short: "Obfuscate a single Objective-C or Swift file",
	Long: `Reads one source file, renames the symbols it declares, and writes
the result to stdout or to the file given with --output. Symbols the
file merely references but does not declare are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		obf, err := api.NewObfuscator(api.Options{
			ConfigPath: cfgFile,
			Silent:     cfg.Silent,
			Seed:       cfg.Naming.Seed,
		})
		if err != nil {
			return err
		}

		result, err := obf.ObfuscateFile(args[0])
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", args[0], err)
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(result), 0644); err != nil {
				return fmt.Errorf("error writing output file %s: %w", outputFile, err)
			}
			return nil
		}
		fmt.Print(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
}
