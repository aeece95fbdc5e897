package cmd

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed version.json
var versionFile []byte

type VersionInfo struct {
	Version string `json:"version"`
}

func getVersion() string {
	var versionInfo VersionInfo
	if err := json.Unmarshal(versionFile, &versionInfo); err != nil {
		return "unknown"
	}
	return versionInfo.Version
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:     "craft",
	Short:   "A concurrent npm-compatible package manager",
	Long:    `craft resolves, downloads, and links npm packages and their dependencies concurrently.`,
	Version: getVersion(),
	RunE:    runInstall,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
}
