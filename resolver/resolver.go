// Package resolver implements the registry and git resolvers (spec
// §4.2–§4.3): given a PackageSpec, produce a ResolvedArtifact.
package resolver

import (
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/registry"
)

// ResolvedArtifact is the resolver's output and the cache-resident
// record carried through the rest of the pipeline. Two artifacts are
// equal iff (Name, Version) match.
type ResolvedArtifact struct {
	Name        string
	Version     string // concrete semver, or the literal "git"
	DownloadURL string
	Integrity   string
	Package     *registry.PackageManifest // nil for git artifacts
}

// CacheKey is the "{name}-{version}" key used for cache directory and
// tarball naming — distinct from pkgspec.PackageSpec.CacheKey.
func (a ResolvedArtifact) CacheKey() string {
	return a.Name + "-" + a.Version
}

// LockKey is the "{name}@{version}" key used by the lockfile.
func (a ResolvedArtifact) LockKey() string {
	return a.Name + "@" + a.Version
}

// Resolver dispatches a PackageSpec to the git or npm resolver based on
// whether it identifies a git source.
type Resolver struct {
	NPM *NpmResolver
	Git *GitResolver
}

// New builds a Resolver backed by the public npm registry.
func New() *Resolver {
	return &Resolver{
		NPM: NewNpmResolver(registry.NewClient()),
		Git: NewGitResolver(),
	}
}

// Resolve implements spec §4.2/§4.3's dispatch: a git spec never hits
// the registry.
func (r *Resolver) Resolve(spec pkgspec.PackageSpec) (ResolvedArtifact, error) {
	if spec.IsGit() {
		return r.Git.Resolve(spec)
	}
	return r.NPM.Resolve(spec)
}
