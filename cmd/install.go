package cmd

import (
	"fmt"
	"time"

	"github.com/ernesto27/craft/config"
	"github.com/ernesto27/craft/packagejson"
	"github.com/spf13/cobra"
)

var productionFlag bool

var installCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"i"},
	Short:   "Install dependencies from package.json",
	Long:    `Read dependencies and devDependencies from package.json and install them into node_modules.`,
	Args:    cobra.NoArgs,
	RunE:    runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVar(&productionFlag, "production", false, "Install only production dependencies")
}

func runInstall(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	pkg, _, err := packagejson.ParseDefault()
	if err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	roots := specsFromPackageJSON(pkg.GetDependencies(), pkg.GetDevDependencies(), productionFlag)
	if len(roots) == 0 {
		fmt.Println("no dependencies to install")
		return nil
	}

	if _, err := runInstallPipeline(cfg, roots, verboseFlag); err != nil {
		return err
	}

	fmt.Printf("\nDone in %v\n", time.Since(startTime))
	return nil
}
