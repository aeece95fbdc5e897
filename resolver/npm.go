package resolver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/ernesto27/craft/internal/log"
	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/registry"
)

// NpmResolver implements spec §4.2.
type NpmResolver struct {
	client *registry.Client
}

func NewNpmResolver(client *registry.Client) *NpmResolver {
	return &NpmResolver{client: client}
}

// Resolve fetches the packument for spec's (possibly alias-normalized)
// package name, selects the best version per §4.2's rule, and builds
// the ResolvedArtifact.
func (r *NpmResolver) Resolve(spec pkgspec.PackageSpec) (ResolvedArtifact, error) {
	dep := pkgspec.ParseDependencySpec(spec)
	log.Tracef("resolving npm package %s %s", dep.PackageName, dep.Version)

	packument, err := r.client.FetchPackument(dep.PackageName)
	if err != nil {
		return ResolvedArtifact{}, err
	}

	selected, err := selectVersion(packument, dep.Version)
	if err != nil {
		return ResolvedArtifact{}, err
	}

	manifest, ok := packument.Versions[selected]
	if !ok {
		return ResolvedArtifact{}, fmt.Errorf("%w: %s has no manifest for selected version %s", pipeerr.ErrNotFound, dep.PackageName, selected)
	}
	if manifest.Dist.Tarball == "" {
		return ResolvedArtifact{}, fmt.Errorf("%w: %s@%s has no dist.tarball", pipeerr.ErrNotFound, dep.PackageName, selected)
	}

	name := manifest.Name
	if name == "" {
		name = dep.PackageName
	}
	version := manifest.Version
	if version == "" {
		version = selected
	}

	m := manifest
	return ResolvedArtifact{
		Name:        name,
		Version:     version,
		DownloadURL: manifest.Dist.Tarball,
		Integrity:   manifest.Dist.Integrity,
		Package:     &m,
	}, nil
}

// selectVersion implements spec §4.2 step 3: with a range, the maximum
// version in packument.Versions satisfying it; without one, dist-tags
// latest. Versions that fail semver parsing are silently skipped. If
// the range itself fails to parse, fall back to "any" (every parseable
// version is a candidate).
func selectVersion(packument *registry.Packument, rng string) (string, error) {
	if rng == "" {
		latest := packument.DistTags["latest"]
		if latest == "" {
			return "", fmt.Errorf("%w: %s has no dist-tags.latest", pipeerr.ErrNotFound, packument.Name)
		}
		return latest, nil
	}

	constraint, err := semver.NewConstraint(rng)
	matchAny := err != nil
	if err != nil {
		log.Warnf("range %q for %s failed to parse, falling back to any version", rng, packument.Name)
	}

	var best *semver.Version
	var bestRaw string
	for raw := range packument.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue // silently skip unparseable candidates
		}
		if !matchAny && !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w: no version of %s satisfies %q", pipeerr.ErrNotFound, packument.Name, rng)
	}
	return bestRaw, nil
}
