// Package lockfile implements spec §4.8: the deterministic artifact
// set persisted to disk, in both a pretty-JSON form and a compact
// binary form, both round-tripping losslessly.
package lockfile

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ernesto27/craft/internal/pipeerr"
)

const Version = "1.0.0"

// PackageEntry is one resolved package's lockfile record.
type PackageEntry struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Resolved     string            `json:"resolved"`
	Integrity    string            `json:"integrity,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Key is the "{name}@{version}" entry key.
func (e PackageEntry) Key() string {
	return e.Name + "@" + e.Version
}

// Lockfile is the full persisted artifact set.
type Lockfile struct {
	Version  string                  `json:"version"`
	Packages map[string]PackageEntry `json:"packages"`
}

// New builds an empty Lockfile ready to receive entries.
func New() *Lockfile {
	return &Lockfile{Version: Version, Packages: make(map[string]PackageEntry)}
}

// Add inserts or overwrites an entry, keyed by entry.Key().
func (l *Lockfile) Add(entry PackageEntry) {
	l.Packages[entry.Key()] = entry
}

// SaveJSON writes the lockfile as pretty-printed JSON.
func (l *Lockfile) SaveJSON(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling lockfile: %v", pipeerr.ErrParse, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", pipeerr.ErrIO, path, err)
	}
	return nil
}

// LoadJSON reads a pretty-JSON lockfile back into memory.
func LoadJSON(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", pipeerr.ErrIO, path, err)
	}
	var l Lockfile
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", pipeerr.ErrParse, path, err)
	}
	return &l, nil
}

// SaveBinary writes the lockfile in a compact gob encoding — the
// canonical "craft.bin" form. See DESIGN.md for why gob (stdlib) is
// used in place of the original Rust implementation's bincode crate.
func (l *Lockfile) SaveBinary(path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(l); err != nil {
		return fmt.Errorf("%w: encoding lockfile: %v", pipeerr.ErrParse, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", pipeerr.ErrIO, path, err)
	}
	return nil
}

// LoadBinary reads a gob-encoded lockfile back into memory.
func LoadBinary(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", pipeerr.ErrIO, path, err)
	}
	var l Lockfile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", pipeerr.ErrParse, path, err)
	}
	return &l, nil
}
