package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClearCache(t *testing.T) {
	testCases := []struct {
		name      string
		setupFunc func(t *testing.T) *Config
		validate  func(t *testing.T, cfg *Config)
	}{
		{
			name: "removes and recreates the packages dir",
			setupFunc: func(t *testing.T) *Config {
				tmpDir := t.TempDir()
				cfg := &Config{
					BaseDir:     tmpDir,
					PackagesDir: filepath.Join(tmpDir, "packages"),
					GlobalDir:   filepath.Join(tmpDir, "global"),
				}

				assert.NoError(t, os.MkdirAll(cfg.PackagesDir, 0755))
				assert.NoError(t, os.WriteFile(filepath.Join(cfg.PackagesDir, "react-17.0.2.tgz"), []byte("x"), 0644))

				assert.NoError(t, os.MkdirAll(cfg.GlobalDir, 0755))
				assert.NoError(t, os.WriteFile(filepath.Join(cfg.GlobalDir, "marker"), []byte("x"), 0644))

				return cfg
			},
			validate: func(t *testing.T, cfg *Config) {
				info, err := os.Stat(cfg.PackagesDir)
				assert.NoError(t, err, "PackagesDir should be recreated")
				assert.True(t, info.IsDir())

				entries, err := os.ReadDir(cfg.PackagesDir)
				assert.NoError(t, err)
				assert.Empty(t, entries, "PackagesDir should be emptied")

				_, err = os.Stat(filepath.Join(cfg.GlobalDir, "marker"))
				assert.NoError(t, err, "global dir untouched by cache clean")
			},
		},
		{
			name: "clearing when packages dir does not exist is not an error",
			setupFunc: func(t *testing.T) *Config {
				tmpDir := t.TempDir()
				return &Config{
					BaseDir:     tmpDir,
					PackagesDir: filepath.Join(tmpDir, "packages"),
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				info, err := os.Stat(cfg.PackagesDir)
				assert.NoError(t, err)
				assert.True(t, info.IsDir())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.setupFunc(t)
			assert.NoError(t, cfg.ClearCache())
			tc.validate(t, cfg)
		})
	}
}

func TestNew(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("CRAFT_HOME", filepath.Join(tmpHome, ".craft"))

	cfg, err := New()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Contains(t, cfg.BaseDir, ".craft")
	assert.Contains(t, cfg.PackagesDir, "packages")
	assert.Contains(t, cfg.GlobalDir, "global")
	assert.Equal(t, "./node_modules", cfg.LocalNodeModules)
}

func TestTarballAndUnpackedPaths(t *testing.T) {
	cfg := &Config{PackagesDir: "/home/u/.craft/packages"}

	assert.Equal(t, "/home/u/.craft/packages/react-17.0.2.tgz", cfg.TarballPath("react", "17.0.2"))
	assert.Equal(t, "/home/u/.craft/packages/react-17.0.2", cfg.UnpackedDir("react", "17.0.2"))
	assert.Equal(t, "/home/u/.craft/packages/react-17.0.2/package", cfg.UnpackedPackageDir("react", "17.0.2"))
}
