// Package linker implements the linker pipeline (spec §4.6–§4.7): wire
// a resolved artifact set into node_modules trees via symlinks, then
// install each package's binary shims into the nearest .bin directory.
package linker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ernesto27/craft/internal/log"
	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/resolver"
)

// linkConcurrency bounds both the hydration fan-out and the root-link
// fan-out, independently of each other.
const linkConcurrency = 10

// Config is the subset of config.Config the linker needs.
type Config interface {
	UnpackedPackageDir(name, version string) string
}

// LinkerPipe wires a resolved artifact set into node_modules trees.
type LinkerPipe struct {
	cfg  Config
	cwd  string // project root; defaults to os.Getwd() via New
	bins bool   // whether to chmod/symlink bin entries; always true outside tests
}

// New builds a LinkerPipe rooted at the current working directory.
func New(cfg Config) (*LinkerPipe, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: determining working directory: %v", pipeerr.ErrIO, err)
	}
	return &LinkerPipe{cfg: cfg, cwd: cwd, bins: true}, nil
}

// Run hydrates every artifact's own node_modules with its dependencies
// (Phase A, spec §4.6), then links each root spec into the project's
// node_modules (Phase B, spec §4.6). Phase B only starts once Phase A
// has fully completed, since root linking may depend on any artifact's
// node_modules being already wired.
func (l *LinkerPipe) Run(ctx context.Context, artifacts []resolver.ResolvedArtifact, roots []pkgspec.PackageSpec) error {
	nodeModules := filepath.Join(l.cwd, "node_modules")
	if err := os.MkdirAll(nodeModules, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", pipeerr.ErrIO, nodeModules, err)
	}

	byName := indexByName(artifacts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(linkConcurrency)
	for _, artifact := range artifacts {
		artifact := artifact
		g.Go(func() error {
			return l.hydrateArtifact(gctx, artifact, byName)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Tracef("hydrated node_modules for %d artifact(s)", len(artifacts))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(linkConcurrency)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			return l.linkRootPackage(gctx, root, byName, nodeModules)
		})
	}
	return g.Wait()
}

// hydrateArtifact links an artifact's own dependencies into its cached
// copy's node_modules, so nested resolution works when that package is
// itself required at runtime.
func (l *LinkerPipe) hydrateArtifact(ctx context.Context, artifact resolver.ResolvedArtifact, byName map[string][]resolver.ResolvedArtifact) error {
	if artifact.Package == nil || len(artifact.Package.Dependencies) == 0 {
		return nil
	}

	sourceDir := l.cfg.UnpackedPackageDir(artifact.Name, artifact.Version)
	artifactNodeModules := filepath.Join(sourceDir, "node_modules")
	if err := os.MkdirAll(artifactNodeModules, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", pipeerr.ErrIO, artifactNodeModules, err)
	}

	for depName, depRange := range artifact.Package.Dependencies {
		candidates := byName[depName]
		best := bestMatch(candidates, depRange)
		if best == nil {
			log.Warnf("no matching artifact for %s's dependency %s@%s", artifact.Name, depName, depRange)
			continue
		}

		depSourceDir := l.cfg.UnpackedPackageDir(best.Name, best.Version)
		depDest := filepath.Join(artifactNodeModules, depName)

		if err := linkDir(depSourceDir, depDest); err != nil {
			return err
		}
		if err := l.linkBinaries(*best, artifactNodeModules); err != nil {
			return err
		}
	}

	return nil
}

// linkRootPackage links one requested root spec into the project's own
// node_modules and installs its binary shims into node_modules/.bin.
func (l *LinkerPipe) linkRootPackage(ctx context.Context, root pkgspec.PackageSpec, byName map[string][]resolver.ResolvedArtifact, nodeModules string) error {
	candidates := byName[root.Name]
	if len(candidates) == 0 {
		log.Warnf("root package %s not found among resolved artifacts", root.Name)
		return nil
	}

	best := bestMatch(candidates, root.Version)
	if best == nil {
		log.Warnf("no matching artifact for root package %s@%s", root.Name, root.Version)
		return nil
	}

	sourceDir := l.cfg.UnpackedPackageDir(best.Name, best.Version)
	destPath := filepath.Join(nodeModules, best.Name)

	if err := linkDir(sourceDir, destPath); err != nil {
		return err
	}
	log.Tracef("linked root %s -> %s", best.Name, sourceDir)

	return l.linkBinaries(*best, nodeModules)
}

// linkDir replaces dest with a symlink to source, removing whatever
// was there before (a prior symlink or a stale real directory).
func linkDir(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", pipeerr.ErrIO, filepath.Dir(dest), err)
	}
	if err := removeExisting(dest); err != nil {
		return err
	}
	if err := os.Symlink(source, dest); err != nil {
		return fmt.Errorf("%w: linking %s -> %s: %v", pipeerr.ErrIO, dest, source, err)
	}
	return nil
}

func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: inspecting %s: %v", pipeerr.ErrIO, path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: removing symlink %s: %v", pipeerr.ErrIO, path, err)
		}
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: removing %s: %v", pipeerr.ErrIO, path, err)
	}
	return nil
}

func indexByName(artifacts []resolver.ResolvedArtifact) map[string][]resolver.ResolvedArtifact {
	byName := make(map[string][]resolver.ResolvedArtifact)
	for _, a := range artifacts {
		byName[a.Name] = append(byName[a.Name], a)
	}
	return byName
}

// bestMatch picks the highest version among candidates satisfying
// rangeStr; an empty or unparseable range matches anything, mirroring
// the resolver's own fallback (spec §4.2).
func bestMatch(candidates []resolver.ResolvedArtifact, rangeStr string) *resolver.ResolvedArtifact {
	var constraint *semver.Constraints
	if rangeStr != "" {
		if c, err := semver.NewConstraint(rangeStr); err == nil {
			constraint = c
		}
	}

	var best *resolver.ResolvedArtifact
	var bestVer *semver.Version
	for i := range candidates {
		c := candidates[i]
		ver, err := semver.NewVersion(c.Version)
		if err != nil {
			continue
		}
		if constraint != nil && !constraint.Check(ver) {
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = &candidates[i]
			bestVer = ver
		}
	}
	return best
}
