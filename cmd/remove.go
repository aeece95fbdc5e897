package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ernesto27/craft/packagejson"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <package>...",
	Aliases: []string{"rm"},
	Short:   "Remove packages from package.json and node_modules",
	Long:    `Remove one or more packages from package.json dependencies and unlink them from node_modules.`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	_, parser, err := packagejson.ParseDefault()
	if err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	for _, name := range args {
		if err := parser.RemoveDependency(name); err != nil {
			return fmt.Errorf("failed to remove %s from package.json: %w", name, err)
		}

		linkPath := filepath.Join("node_modules", name)
		if err := os.RemoveAll(linkPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s from node_modules: %w", name, err)
		}

		fmt.Println("removed", name)
	}

	return nil
}
