package resolver

import (
	"strings"

	"github.com/ernesto27/craft/pkgspec"
)

// GitResolver implements spec §4.3: parse a git URL into a synthetic
// artifact with version "git". Git artifacts are not fetched by this
// resolver — the install pipeline's materialize step returns NotFound
// for them, per the §9 open-question decision recorded in SPEC_FULL.md.
type GitResolver struct{}

func NewGitResolver() *GitResolver {
	return &GitResolver{}
}

// gitPrefixes mirrors pkgspec.IsGitSpec's detection list — the schemes
// §3 names as identifying a git source.
var gitPrefixes = []string{
	"git+ssh:",
	"git+http:",
	"git+https:",
	"git:",
	"ssh:",
}

// Resolve strips a known git-scheme prefix (and a following "//", if
// present), derives the package name from the final path segment
// (trimming a trailing ".git"), and normalizes the download URL to
// https when the input carried no scheme of its own.
func (g *GitResolver) Resolve(spec pkgspec.PackageSpec) (ResolvedArtifact, error) {
	source := spec.GitSource()
	hadScheme := strings.Contains(source, "://")

	rest := source
	for _, prefix := range gitPrefixes {
		if strings.HasPrefix(rest, prefix) {
			rest = strings.TrimPrefix(rest, prefix)
			rest = strings.TrimPrefix(rest, "//")
			break
		}
	}
	// Drop an scp-style "user@" authority (e.g. "git@github.com:owner/repo").
	if at := strings.Index(rest, "@"); at >= 0 {
		rest = rest[at+1:]
		rest = strings.Replace(rest, ":", "/", 1)
	}

	segments := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	last := segments[len(segments)-1]
	name := strings.TrimSuffix(last, ".git")

	downloadURL := source
	if !hadScheme {
		downloadURL = "https://" + rest
	}

	return ResolvedArtifact{
		Name:        name,
		Version:     "git",
		DownloadURL: downloadURL,
	}, nil
}
