// Package cache implements the download coordinator (spec §4.4): at
// most one in-flight download per tarball filename, via a two-level
// mutex map — an outer mutex guarding get-or-insert into a map of
// per-filename mutexes, so the outer critical section is only ever a
// hash lookup.
package cache

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/utils"
)

// DownloadArtifact pairs a cache key with the on-disk path the tarball
// is guaranteed to exist at once Download returns.
type DownloadArtifact struct {
	Key  string
	Path string
}

// Coordinator is the per-filename singleflight map described above.
type Coordinator struct {
	httpClient *http.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCoordinator builds a Coordinator using http.DefaultClient.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		httpClient: http.DefaultClient,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Download ensures url is present on disk at path, downloading it at
// most once even under concurrent callers for the same path.
func (c *Coordinator) Download(cacheKey, url, path string) (DownloadArtifact, error) {
	lock := c.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	// Double-checked: another goroutine may have already finished this
	// download while we were waiting for the lock. A present-but-corrupt
	// tarball (e.g. an interrupted prior run) is treated as a miss.
	if _, err := os.Stat(path); err == nil {
		if utils.ValidateTarball(path) {
			return DownloadArtifact{Key: cacheKey, Path: path}, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return DownloadArtifact{}, fmt.Errorf("%w: creating directory for %s: %v", pipeerr.ErrIO, path, err)
	}

	if err := c.downloadTo(url, path); err != nil {
		return DownloadArtifact{}, err
	}

	return DownloadArtifact{Key: cacheKey, Path: path}, nil
}

func (c *Coordinator) downloadTo(url, path string) error {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("%w: downloading %s: %v", pipeerr.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", pipeerr.ErrNetwork, url, resp.StatusCode)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", pipeerr.ErrIO, tempPath, err)
	}

	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: writing %s: %v", pipeerr.ErrIO, tempPath, copyErr)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: closing %s: %v", pipeerr.ErrIO, tempPath, closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: finalizing %s: %v", pipeerr.ErrIO, path, err)
	}

	return nil
}

func (c *Coordinator) lockFor(path string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[path] = lock
	}
	return lock
}
