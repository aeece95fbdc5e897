package linker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/registry"
	"github.com/ernesto27/craft/resolver"
)

type testConfig struct{ cacheDir string }

func (c testConfig) UnpackedPackageDir(name, version string) string {
	return filepath.Join(c.cacheDir, name+"-"+version, "package")
}

func writeFakePackage(t *testing.T, cacheDir, name, version string, bin any, files map[string]string) {
	t.Helper()
	pkgDir := filepath.Join(cacheDir, name+"-"+version, "package")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	for relPath, content := range files {
		full := filepath.Join(pkgDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestRunLinksRootAndBinaries(t *testing.T) {
	cacheDir := t.TempDir()
	projectDir := t.TempDir()

	writeFakePackage(t, cacheDir, "cli-tool", "1.0.0", "bin/cli.js", map[string]string{
		"bin/cli.js": "#!/usr/bin/env node\n",
	})

	artifact := resolver.ResolvedArtifact{
		Name:    "cli-tool",
		Version: "1.0.0",
		Package: &registry.PackageManifest{
			Name: "cli-tool", Version: "1.0.0", Bin: "bin/cli.js",
		},
	}

	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(projectDir))
	defer os.Chdir(origWd)

	pipe, err := New(testConfig{cacheDir: cacheDir})
	require.NoError(t, err)

	roots := []pkgspec.PackageSpec{pkgspec.New("cli-tool", "^1.0.0", false)}
	require.NoError(t, pipe.Run(context.Background(), []resolver.ResolvedArtifact{artifact}, roots))

	linkPath := filepath.Join(projectDir, "node_modules", "cli-tool")
	info, err := os.Lstat(linkPath)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	binPath := filepath.Join(projectDir, "node_modules", ".bin", "cli-tool")
	binInfo, err := os.Lstat(binPath)
	require.NoError(t, err)
	assert.True(t, binInfo.Mode()&os.ModeSymlink != 0)

	target, err := os.Readlink(binPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(projectDir, "node_modules", "cli-tool", "bin/cli.js"), target)
}

func TestRunHydratesTransitiveDependency(t *testing.T) {
	cacheDir := t.TempDir()
	projectDir := t.TempDir()

	writeFakePackage(t, cacheDir, "has-dep", "1.0.0", nil, map[string]string{"index.js": ""})
	writeFakePackage(t, cacheDir, "leaf", "2.1.0", nil, map[string]string{"index.js": ""})

	artifacts := []resolver.ResolvedArtifact{
		{
			Name: "has-dep", Version: "1.0.0",
			Package: &registry.PackageManifest{
				Name: "has-dep", Version: "1.0.0",
				Dependencies: map[string]string{"leaf": "^2.0.0"},
			},
		},
		{Name: "leaf", Version: "2.1.0", Package: &registry.PackageManifest{Name: "leaf", Version: "2.1.0"}},
	}

	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(projectDir))
	defer os.Chdir(origWd)

	pipe, err := New(testConfig{cacheDir: cacheDir})
	require.NoError(t, err)

	roots := []pkgspec.PackageSpec{pkgspec.New("has-dep", "^1.0.0", false)}
	require.NoError(t, pipe.Run(context.Background(), artifacts, roots))

	nestedLink := filepath.Join(cacheDir, "has-dep-1.0.0", "package", "node_modules", "leaf")
	info, err := os.Lstat(nestedLink)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)
}

func TestBestMatchPicksHighestSatisfying(t *testing.T) {
	candidates := []resolver.ResolvedArtifact{
		{Name: "x", Version: "1.0.0"},
		{Name: "x", Version: "1.2.0"},
		{Name: "x", Version: "2.0.0"},
	}

	best := bestMatch(candidates, "^1.0.0")
	require.NotNil(t, best)
	assert.Equal(t, "1.2.0", best.Version)
}

func TestBestMatchEmptyRangeMatchesHighest(t *testing.T) {
	candidates := []resolver.ResolvedArtifact{
		{Name: "x", Version: "1.0.0"},
		{Name: "x", Version: "3.0.0"},
	}

	best := bestMatch(candidates, "")
	require.NotNil(t, best)
	assert.Equal(t, "3.0.0", best.Version)
}
