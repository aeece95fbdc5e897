// Package unpack extracts an npm tarball into a deterministic cache
// directory. It runs synchronously on the caller's own goroutine — spec
// §5 calls for offloading this CPU-bound step to a blocking worker pool,
// which in Go's M:N scheduler is already true of any goroutine; see
// SPEC_FULL.md §5 for why no separate pool is introduced.
package unpack

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ernesto27/craft/internal/pipeerr"
)

// Tarball extracts tarballPath into destDir, retaining the tarball's
// own top directory, so a conventional npm tarball (whose entries all
// sit under "package/") lands at "<destDir>/package".
func Tarball(tarballPath, destDir string) error {
	f, err := os.Open(tarballPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", pipeerr.ErrIO, tarballPath, err)
	}
	defer f.Close()

	bufReader := bufio.NewReaderSize(f, 1<<20)

	gzr, err := gzip.NewReader(bufReader)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid gzip stream: %v", pipeerr.ErrUnzip, tarballPath, err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	createdDirs := make(map[string]bool)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading tar entries from %s: %v", pipeerr.ErrUnzip, tarballPath, err)
		}

		name := header.Name
		if name == "" {
			continue
		}

		target := filepath.Join(destDir, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := ensureDir(target, createdDirs); err != nil {
				return err
			}

		case tar.TypeReg, tar.TypeRegA:
			if err := ensureDir(filepath.Dir(target), createdDirs); err != nil {
				return err
			}
			if err := writeFile(target, tr, header.FileInfo().Mode()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := ensureDir(filepath.Dir(target), createdDirs); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("%w: creating symlink %s: %v", pipeerr.ErrIO, target, err)
			}
		}
	}

	return nil
}

func ensureDir(dir string, created map[string]bool) error {
	if created[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %v", pipeerr.ErrIO, dir, err)
	}
	created[dir] = true
	return nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("%w: creating file %s: %v", pipeerr.ErrIO, target, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<16)
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("%w: writing file %s: %v", pipeerr.ErrIO, target, err)
	}
	return w.Flush()
}
