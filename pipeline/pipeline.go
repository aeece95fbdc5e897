// Package pipeline implements the install pipeline (spec §4.5): given a
// set of root PackageSpecs, concurrently resolve, download and unpack
// the full dependency graph, deduplicating by {name}@{version}.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ernesto27/craft/cache"
	"github.com/ernesto27/craft/integrity"
	"github.com/ernesto27/craft/internal/log"
	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/resolver"
	"github.com/ernesto27/craft/unpack"
	"github.com/ernesto27/craft/utils"
)

// dependencyConcurrency bounds the fan-out of a single package's own
// dependency recursion, independent of the root concurrency limit.
const dependencyConcurrency = 10

// lockSlot is the per-cache-key singleflight slot: the first goroutine
// to lock mu finds resolved unset and does the resolve+download+unzip
// work while holding mu; every other caller for the same key blocks on
// mu.Lock() and then reads the cached result.
type lockSlot struct {
	mu       sync.Mutex
	resolved bool
	artifact resolver.ResolvedArtifact
	err      error
}

// Config is the subset of config.Config the pipeline needs, expressed
// as an interface so tests can supply a temp-dir stand-in.
type Config interface {
	TarballPath(name, version string) string
	UnpackedDir(name, version string) string
}

// InstallPipe resolves and materializes a dependency graph into the
// on-disk package cache.
type InstallPipe struct {
	cfg      Config
	resolver *resolver.Resolver
	cache    *cache.Coordinator

	mu     sync.Mutex
	locked map[string]*lockSlot

	unzipMu    sync.Mutex
	unzipLocks map[string]*sync.Mutex
}

// New builds an InstallPipe against cfg, using res to resolve package
// specs and coord to singleflight tarball downloads.
func New(cfg Config, res *resolver.Resolver, coord *cache.Coordinator) *InstallPipe {
	return &InstallPipe{
		cfg:        cfg,
		resolver:   res,
		cache:      coord,
		locked:     make(map[string]*lockSlot),
		unzipLocks: make(map[string]*sync.Mutex),
	}
}

// rootConcurrency is max(2, 2*NumCPU), matching the original's
// thread::available_parallelism()-derived limit.
func rootConcurrency() int {
	n := runtime.NumCPU() * 2
	if n < 2 {
		return 2
	}
	return n
}

// Run resolves every root spec and its full transitive dependency
// graph, returning the deduplicated set of resolved artifacts.
// Platform-incompatible artifacts are included in that set without
// being downloaded or unzipped; a git-sourced artifact fails the run
// with ErrNotFound (see materialize).
func (p *InstallPipe) Run(ctx context.Context, roots []pkgspec.PackageSpec) ([]resolver.ResolvedArtifact, error) {
	log.Tracef("installing %d root package(s)", len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rootConcurrency())

	for _, root := range roots {
		root := root
		g.Go(func() error {
			return p.resolvePackage(gctx, root)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return p.collect(), nil
}

// resolvePackage resolves, downloads and unpacks a single package,
// then fans out over its dependencies. Concurrent calls for the same
// cache key block on the first caller's slot rather than duplicating
// work.
func (p *InstallPipe) resolvePackage(ctx context.Context, spec pkgspec.PackageSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cacheKey := spec.CacheKey()
	log.Tracef("resolving %s", cacheKey)

	slot := p.slotFor(cacheKey)
	slot.mu.Lock()

	if slot.resolved {
		err := slot.err
		slot.mu.Unlock()
		log.Tracef("%s already resolved", cacheKey)
		return err
	}

	artifact, err := p.resolver.Resolve(spec)
	if err != nil {
		slot.resolved = true
		slot.err = err
		slot.mu.Unlock()
		return err
	}

	enriched, err := p.materialize(artifact)
	if err != nil {
		slot.resolved = true
		slot.err = err
		slot.mu.Unlock()
		return err
	}
	artifact = enriched

	slot.resolved = true
	slot.artifact = artifact
	deps := dependenciesOf(artifact)

	// Release the slot lock before recursing into dependencies. A cyclic
	// graph (A depends on B depends on A) would otherwise deadlock: the
	// goroutine resolving A's far side of the cycle blocks here waiting
	// for a lock its own ancestor is holding.
	slot.mu.Unlock()

	if len(deps) == 0 {
		return nil
	}
	log.Tracef("installing %d dependencies for %s", len(deps), artifact.Name)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dependencyConcurrency)

	for name, version := range deps {
		depSpec := pkgspec.New(name, version, false)
		g.Go(func() error {
			return p.resolvePackage(gctx, depSpec)
		})
	}

	if err := g.Wait(); err != nil {
		slot.mu.Lock()
		slot.err = err
		slot.mu.Unlock()
		return err
	}

	return nil
}

// materialize downloads and unpacks a resolved artifact. A git artifact
// or one without a download URL returns ErrNotFound (decision recorded
// in SPEC_FULL.md §9 — resolvable, not installable). An artifact
// incompatible with the current OS/CPU is logged and returned without
// being downloaded or unpacked, rather than failing the whole install.
// It returns the
// artifact with Integrity filled in when the registry manifest omitted
// dist.integrity, so the recorded lockfile entry still carries a hash
// (spec: recorded, not enforced).
func (p *InstallPipe) materialize(artifact resolver.ResolvedArtifact) (resolver.ResolvedArtifact, error) {
	if artifact.Version == "git" {
		return artifact, fmt.Errorf("%w: git dependency %s is not yet installable", pipeerr.ErrNotFound, artifact.Name)
	}

	if artifact.DownloadURL == "" {
		return artifact, fmt.Errorf("%w: %s has no download source", pipeerr.ErrNotFound, artifact.Name)
	}

	if artifact.Package != nil && !utils.IsCompatiblePlatform(artifact.Package.OS, artifact.Package.CPU) {
		log.Warnf("skipping %s@%s: incompatible with %s/%s", artifact.Name, artifact.Version, utils.GetCurrentOS(), utils.GetCurrentCPU())
		return artifact, nil
	}

	tarballPath := p.cfg.TarballPath(artifact.Name, artifact.Version)
	if _, err := p.cache.Download(artifact.CacheKey(), artifact.DownloadURL, tarballPath); err != nil {
		return artifact, err
	}

	if artifact.Integrity == "" {
		if sum, err := integrity.ComputeHash(tarballPath, "sha512"); err == nil {
			artifact.Integrity = "sha512-" + sum
		} else {
			log.Warnf("could not compute integrity hash for %s@%s: %v", artifact.Name, artifact.Version, err)
		}
	}

	unzipDir := p.cfg.UnpackedDir(artifact.Name, artifact.Version)
	unzipLock := p.unzipLockFor(artifact.LockKey())
	unzipLock.Lock()
	defer unzipLock.Unlock()

	if _, err := os.Stat(unzipDir); err == nil {
		log.Tracef("%s already unzipped", artifact.Name)
		return artifact, nil
	}

	if err := unpack.Tarball(tarballPath, unzipDir); err != nil {
		return artifact, err
	}
	return artifact, nil
}

func dependenciesOf(artifact resolver.ResolvedArtifact) map[string]string {
	if artifact.Package == nil {
		return nil
	}
	return artifact.Package.Dependencies
}

func (p *InstallPipe) slotFor(cacheKey string) *lockSlot {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.locked[cacheKey]
	if !ok {
		slot = &lockSlot{}
		p.locked[cacheKey] = slot
	}
	return slot
}

func (p *InstallPipe) unzipLockFor(key string) *sync.Mutex {
	p.unzipMu.Lock()
	defer p.unzipMu.Unlock()

	lock, ok := p.unzipLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.unzipLocks[key] = lock
	}
	return lock
}

// collect gathers every resolved artifact, deduplicated by LockKey.
func (p *InstallPipe) collect() []resolver.ResolvedArtifact {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]bool, len(p.locked))
	artifacts := make([]resolver.ResolvedArtifact, 0, len(p.locked))

	for _, slot := range p.locked {
		slot.mu.Lock()
		if slot.resolved && slot.err == nil {
			key := slot.artifact.LockKey()
			if !seen[key] {
				seen[key] = true
				artifacts = append(artifacts, slot.artifact)
			}
		}
		slot.mu.Unlock()
	}

	return artifacts
}
