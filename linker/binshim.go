package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ernesto27/craft/internal/log"
	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/resolver"
)

// linkBinaries installs artifact's bin entries as symlinks under
// nodeModulesDir/.bin. package.json's "bin" field is either a bare
// string (the package's own name is the shim name) or a map of shim
// name to script path.
func (l *LinkerPipe) linkBinaries(artifact resolver.ResolvedArtifact, nodeModulesDir string) error {
	if !l.bins || artifact.Package == nil || artifact.Package.Bin == nil {
		return nil
	}

	bins := binEntries(artifact.Name, artifact.Package.Bin)
	if len(bins) == 0 {
		return nil
	}

	binDir := filepath.Join(nodeModulesDir, ".bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", pipeerr.ErrIO, binDir, err)
	}

	packageDir := filepath.Join(nodeModulesDir, artifact.Name)

	for shimName, scriptPath := range bins {
		sourcePath := filepath.Join(packageDir, scriptPath)
		targetPath := filepath.Join(binDir, shimName)

		if err := removeExisting(targetPath); err != nil {
			return err
		}

		// Decision recorded in SPEC_FULL.md §9: direct symlinks on every
		// platform, including Windows — no .cmd shim generation.
		if err := os.Symlink(sourcePath, targetPath); err != nil {
			return fmt.Errorf("%w: linking bin %s -> %s: %v", pipeerr.ErrIO, targetPath, sourcePath, err)
		}

		if runtime.GOOS != "windows" {
			if err := os.Chmod(sourcePath, 0755); err != nil {
				log.Warnf("could not mark %s executable: %v", sourcePath, err)
			}
		}

		log.Tracef("linked bin %s -> %s", shimName, sourcePath)
	}

	return nil
}

// binEntries normalizes package.json's "bin" field (string or
// map[string]string, per the registry manifest's untyped JSON) into a
// shim-name -> script-path map.
func binEntries(packageName string, bin any) map[string]string {
	switch v := bin.(type) {
	case string:
		return map[string]string{packageName: v}
	case map[string]any:
		out := make(map[string]string, len(v))
		for name, path := range v {
			if s, ok := path.(string); ok {
				out[name] = s
			}
		}
		return out
	case map[string]string:
		return v
	default:
		return nil
	}
}
