package cmd

import (
	"fmt"

	"github.com/ernesto27/craft/config"
	"github.com/ernesto27/craft/packagejson"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/spf13/cobra"
)

var addDevFlag bool

var addCmd = &cobra.Command{
	Use:   "add <package[@version]>...",
	Short: "Add packages to package.json and install them",
	Long:  `Resolve and install one or more packages, then record them in package.json.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().BoolVarP(&addDevFlag, "dev", "D", false, "Save to devDependencies")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	roots := make([]pkgspec.PackageSpec, 0, len(args))
	for _, arg := range args {
		roots = append(roots, pkgspec.ParseLiteral(arg, addDevFlag))
	}

	artifacts, err := runInstallPipeline(cfg, roots, verboseFlag)
	if err != nil {
		return err
	}

	byName := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		byName[a.Name] = a.Version
	}

	_, parser, err := packagejson.ParseDefault()
	if err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	for _, root := range roots {
		version, ok := byName[root.Name]
		if !ok {
			continue
		}
		if err := parser.AddOrUpdateDependency(root.Name, "^"+version, addDevFlag); err != nil {
			return fmt.Errorf("failed to update package.json for %s: %w", root.Name, err)
		}
	}

	fmt.Println("added", len(roots), "package(s)")
	return nil
}
