package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/parsecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persisted parse cache",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many extraction results are cached on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		c, err := parsecache.New(cfg.Cache)
		if err != nil {
			return err
		}
		fmt.Printf("Cache directory: %s\n", cfg.Cache.Dir)
		fmt.Printf("Entries on disk: %d\n", c.EntryCount())
		if cfg.Cache.DiskCapacity > 0 {
			fmt.Printf("Disk capacity:   %d\n", cfg.Cache.DiskCapacity)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every persisted cache entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		c, err := parsecache.New(cfg.Cache)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
		config.PrintInfo("Cleared cache directory %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
