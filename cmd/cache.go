package cmd

import (
	"fmt"

	"github.com/ernesto27/craft/config"
	"github.com/spf13/cobra"
)

var cacheForceFlag bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the package cache",
	Long:  `Manage the package cache directory ($CRAFT_HOME/packages).`,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all cached tarballs and unpacked packages",
	Long:  `Wipe and recreate the package cache. Requires --force.`,
	RunE:  runCacheClean,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCleanCmd.Flags().BoolVar(&cacheForceFlag, "force", false, "Confirm cache removal")
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	if !cacheForceFlag {
		return fmt.Errorf("refusing to clean cache without --force")
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := cfg.ClearCache(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Println("cache cleared")
	return nil
}
