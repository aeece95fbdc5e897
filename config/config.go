package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const NPMRegistryURL = "https://registry.npmjs.org/"

// Config holds the on-disk layout the pipeline reads and writes.
type Config struct {
	// BaseDir is the cache root: $HOME/.craft (Unix) or
	// %USERPROFILE%\.craft (Windows), overridable via CRAFT_HOME.
	BaseDir string
	// PackagesDir is where tarballs and unpacked artifacts live:
	// BaseDir/packages/{name}-{version}.tgz and
	// BaseDir/packages/{name}-{version}/package.
	PackagesDir string

	LocalNodeModules string
	LocalBinDir      string

	GlobalDir         string
	GlobalNodeModules string
	GlobalBinDir      string
}

func New() (*Config, error) {
	baseDir := os.Getenv("CRAFT_HOME")
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(homeDir, ".craft")
	}
	globalDir := filepath.Join(baseDir, "global")

	cfg := &Config{
		BaseDir:     baseDir,
		PackagesDir: filepath.Join(baseDir, "packages"),

		LocalNodeModules: "./node_modules",
		LocalBinDir:      "./node_modules/.bin",

		GlobalDir:         globalDir,
		GlobalNodeModules: filepath.Join(globalDir, "node_modules"),
		GlobalBinDir:      filepath.Join(globalDir, "bin"),
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.BaseDir,
		c.PackagesDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ClearCache implements "cache clean": wipe and recreate PackagesDir.
func (c *Config) ClearCache() error {
	if err := os.RemoveAll(c.PackagesDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", c.PackagesDir, err)
		}
	}

	if err := os.MkdirAll(c.PackagesDir, 0755); err != nil {
		return fmt.Errorf("failed to recreate %s: %w", c.PackagesDir, err)
	}

	return nil
}

// TarballPath returns the cache path for a downloaded tarball.
func (c *Config) TarballPath(name, version string) string {
	return filepath.Join(c.PackagesDir, fmt.Sprintf("%s-%s.tgz", name, version))
}

// UnpackedDir returns the cache directory an artifact is unpacked into;
// the tarball's own top-level directory (conventionally "package/") is
// retained beneath it.
func (c *Config) UnpackedDir(name, version string) string {
	return filepath.Join(c.PackagesDir, fmt.Sprintf("%s-%s", name, version))
}

// UnpackedPackageDir returns the path to the package's own root within
// the cache, i.e. UnpackedDir/package.
func (c *Config) UnpackedPackageDir(name, version string) string {
	return filepath.Join(c.UnpackedDir(name, version), "package")
}
