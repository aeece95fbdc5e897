package cmd

import (
	"github.com/ernesto27/craft/info"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/registry"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <package[@version]>",
	Short: "Show information about a package",
	Long:  `Display registry metadata for an npm package: version, license, description, dist-tags, maintainers.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	spec := pkgspec.ParseLiteral(args[0], false)
	svc := info.New(registry.NewClient())
	return svc.Show(spec.Name, spec.Version)
}
