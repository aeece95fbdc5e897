package cmd

import (
	"fmt"

	"github.com/ernesto27/craft/list"
	"github.com/ernesto27/craft/lockfile"
	"github.com/ernesto27/craft/packagejson"
	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packages",
	Long:    `Display a tree of installed packages and their dependencies.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show all dependencies (full tree)")
}

func runList(cmd *cobra.Command, args []string) error {
	pkg, _, err := packagejson.ParseDefault()
	if err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	lock, err := lockfile.LoadJSON(lockFileJSON)
	if err != nil {
		return fmt.Errorf("no lockfile found: run 'craft install' first: %w", err)
	}

	projectName := pkg.Name
	if projectName == "" {
		projectName = "project"
	}

	lister := list.New(lock, projectName, pkg.Version, pkg.GetDependencies(), pkg.GetDevDependencies())
	lister.ShowAll = listAll
	lister.Print()

	return nil
}
