package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLockfile() *Lockfile {
	l := New()
	l.Add(PackageEntry{
		Name: "react", Version: "17.0.2",
		Resolved:     "https://registry.npmjs.org/react/-/react-17.0.2.tgz",
		Integrity:    "sha512-abc",
		Dependencies: map[string]string{"loose-envify": "^1.1.0"},
	})
	l.Add(PackageEntry{Name: "loose-envify", Version: "1.4.0"})
	return l
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "craft-lock.json")

	original := sampleLockfile()
	require.NoError(t, original.SaveJSON(path))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, original.Packages, loaded.Packages)
}

func TestBinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "craft.lock")

	original := sampleLockfile()
	require.NoError(t, original.SaveBinary(path))

	loaded, err := LoadBinary(path)
	require.NoError(t, err)

	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, original.Packages, loaded.Packages)
}

func TestEntryKey(t *testing.T) {
	entry := PackageEntry{Name: "react", Version: "17.0.2"}
	assert.Equal(t, "react@17.0.2", entry.Key())
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
