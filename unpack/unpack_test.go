package unpack

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTarball(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gzw := gzip.NewWriter(f)
	defer gzw.Close()
	tw := tar.NewWriter(gzw)
	defer tw.Close()

	for name, content := range files {
		hdr := &tar.Header{
			Name: "package/" + name,
			Mode: 0644,
			Size: int64(len(content)),
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
}

func TestTarballExtractsAndRetainsPackageDir(t *testing.T) {
	dir := t.TempDir()
	tarballPath := filepath.Join(dir, "pkg.tgz")
	destDir := filepath.Join(dir, "pkg-1.0.0")

	writeTestTarball(t, tarballPath, map[string]string{
		"package.json":  `{"name":"pkg","version":"1.0.0"}`,
		"lib/index.js": "module.exports = {}",
	})

	require.NoError(t, Tarball(tarballPath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "package", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"pkg"`)

	_, err = os.Stat(filepath.Join(destDir, "package", "lib", "index.js"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(destDir, "package.json"))
	assert.True(t, os.IsNotExist(err), "the package/ directory should be retained, not flattened into destDir")
}

func TestTarballRejectsCorruptedStream(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.tgz")
	require.NoError(t, os.WriteFile(badPath, []byte("not a gzip stream"), 0644))

	err := Tarball(badPath, filepath.Join(dir, "out"))
	assert.Error(t, err)
}
