package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/ernesto27/craft/packagejson"
	"github.com/ernesto27/craft/scripts"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script defined in package.json",
	Long:  `Execute a script defined in the "scripts" section of package.json.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	scriptName := args[0]

	pkg, _, err := packagejson.ParseDefault()
	if err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	if len(pkg.Scripts) == 0 {
		return fmt.Errorf("no scripts defined in package.json")
	}

	script, exists := pkg.Scripts[scriptName]
	if !exists {
		return fmt.Errorf("script %q not found in package.json\n\nAvailable scripts:\n%s",
			scriptName, formatAvailableScripts(pkg.Scripts))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	executor := scripts.NewScriptExecutor(cwd + "/node_modules")

	fmt.Printf("\n> %s@%s %s\n", pkg.Name, pkg.Version, scriptName)

	return executor.Execute(script, cwd, pkg.Name, pkg.Version, scriptName)
}

func formatAvailableScripts(scriptMap map[string]string) string {
	names := make([]string, 0, len(scriptMap))
	for name := range scriptMap {
		names = append(names, name)
	}
	sort.Strings(names)

	result := ""
	for _, name := range names {
		result += fmt.Sprintf("  %s: %s\n", name, scriptMap[name])
	}
	return result
}
