package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
	"github.com/cloakwork/objcloak/internal/whitelist"
)

var (
	whitelistFile   string // --file overrides the configured custom list path
	whitelistKind   string
	whitelistReason string
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the custom whitelist of protected names",
	Long: `The custom whitelist is the only editable protection tier. Names on
it are never renamed, in addition to the built-in platform names and
the names derived from dependency manifests.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func customListPath() string {
	if whitelistFile != "" {
		return whitelistFile
	}
	return cfg.Whitelist.CustomPath
}

func loadCustomList(cmd *cobra.Command) (*whitelist.CustomList, error) {
	cmd.SilenceUsage = true
	list, err := whitelist.LoadCustomList(customListPath())
	if err != nil {
		// a malformed list is recoverable; start fresh but tell the user
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return list, nil
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a protected name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadCustomList(cmd)
		if err != nil {
			return err
		}
		kind, ok := extractor.ParseKind(whitelistKind)
		if !ok {
			return fmt.Errorf("unknown symbol kind %q", whitelistKind)
		}
		if err := list.Add(args[0], kind, whitelistReason); err != nil {
			return err
		}
		if err := list.Save(); err != nil {
			return err
		}
		config.PrintInfo("Added '%s' to %s\n", args[0], customListPath())
		return nil
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a protected name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadCustomList(cmd)
		if err != nil {
			return err
		}
		if err := list.Delete(args[0]); err != nil {
			return err
		}
		if err := list.Save(); err != nil {
			return err
		}
		config.PrintInfo("Removed '%s' from %s\n", args[0], customListPath())
		return nil
	},
}

var whitelistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every custom whitelist entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadCustomList(cmd)
		if err != nil {
			return err
		}
		if len(list.Entries) == 0 {
			fmt.Println("(empty)")
			return nil
		}
		for _, e := range list.Entries {
			kind := string(e.Kind)
			if kind == "" {
				kind = "any"
			}
			if e.Reason != "" {
				fmt.Printf("%-40s %-10s %s\n", e.Name, kind, e.Reason)
			} else {
				fmt.Printf("%-40s %s\n", e.Name, kind)
			}
		}
		return nil
	},
}

var whitelistImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import entries from a JSON list or a plain name-per-line file",
	Long: `Imports protected names from another whitelist export or from a plain
text file with one name per line ('#' starts a comment). Imported names
that collide with existing entries are kept under a numbered suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadCustomList(cmd)
		if err != nil {
			return err
		}
		n, err := list.Import(args[0])
		if err != nil {
			return err
		}
		if err := list.Save(); err != nil {
			return err
		}
		config.PrintInfo("Imported %d entries into %s\n", n, customListPath())
		return nil
	},
}

var whitelistExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the custom whitelist to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadCustomList(cmd)
		if err != nil {
			return err
		}
		if err := list.Export(args[0]); err != nil {
			return err
		}
		config.PrintInfo("Exported %d entries to %s\n", len(list.Entries), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whitelistCmd)
	whitelistCmd.PersistentFlags().StringVar(&whitelistFile, "file", "", "Custom whitelist file (default from config)")
	whitelistAddCmd.Flags().StringVar(&whitelistKind, "kind", "", "Limit protection to one symbol kind (class, protocol, category, enum, method, property, constant)")
	whitelistAddCmd.Flags().StringVar(&whitelistReason, "reason", "", "Why the name is protected")
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRemoveCmd)
	whitelistCmd.AddCommand(whitelistListCmd)
	whitelistCmd.AddCommand(whitelistImportCmd)
	whitelistCmd.AddCommand(whitelistExportCmd)
}
