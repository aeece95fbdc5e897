// Package pkgspec parses the install engine's input: a literal package
// argument or package.json dependency entry into a PackageSpec, and
// normalizes a PackageSpec into the DependencySpec the resolver consumes.
package pkgspec

import "strings"

var gitPrefixes = []string{
	"git:",
	"git+ssh:",
	"git+http:",
	"git+https:",
	"ssh:",
}

// PackageSpec is a single install target: a name, an optional version
// range (which may itself be an npm:real@range alias or a git URL), and
// whether it belongs in devDependencies.
type PackageSpec struct {
	Name    string
	Version string // empty means "no range given"
	IsDev   bool
}

// New builds a PackageSpec directly from already-split fields, as used
// when reading dependencies out of package.json.
func New(name, version string, isDev bool) PackageSpec {
	return PackageSpec{Name: name, Version: version, IsDev: isDev}
}

// ParseLiteral splits a CLI-style argument ("react", "react@17.0.2",
// "@scope/name@^2", "@scope/name") on the *last* '@'. A leading '@' at
// index 0 marks a scoped package; if no other '@' follows, the version
// is empty rather than mistakenly split on the scope separator.
func ParseLiteral(s string, isDev bool) PackageSpec {
	idx := strings.LastIndex(s, "@")
	if idx <= 0 {
		// No '@', or the only '@' is the scope marker at index 0.
		return PackageSpec{Name: s, IsDev: isDev}
	}
	return PackageSpec{Name: s[:idx], Version: s[idx+1:], IsDev: isDev}
}

// IsGitSpec reports whether s identifies a git source: a known git
// scheme prefix, or a ".git" suffix.
func IsGitSpec(s string) bool {
	for _, prefix := range gitPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return strings.HasSuffix(s, ".git")
}

// IsGit reports whether this spec should be routed to the git resolver:
// either the version string is itself a git URL (from a package.json
// dependency value), or the name is (from `craft add git+https://...`).
func (p PackageSpec) IsGit() bool {
	return IsGitSpec(p.Name) || (p.Version != "" && IsGitSpec(p.Version))
}

// GitSource returns whichever field carries the git URL.
func (p PackageSpec) GitSource() string {
	if IsGitSpec(p.Name) {
		return p.Name
	}
	return p.Version
}

// CacheKey is the install pipeline's singleflight key: distinct from the
// lockfile/cache-directory key, and independent of IsDev.
func (p PackageSpec) CacheKey() string {
	return p.Name + "@" + p.Version
}

// DependencySpec is the resolver's normalized input: the real package
// name to query the registry for, and an optional range.
type DependencySpec struct {
	PackageName string
	Version     string
}

// ParseDependencySpec resolves an npm:real@range alias. If version
// begins with "npm:", the real package name is the segment between
// "npm:" and the next '@'; the range is whatever follows that '@' (or
// empty if there is none). Otherwise the spec passes through unchanged.
func ParseDependencySpec(spec PackageSpec) DependencySpec {
	if alias, ok := parseNpmAlias(spec.Version); ok {
		return alias
	}
	return DependencySpec{PackageName: spec.Name, Version: spec.Version}
}

func parseNpmAlias(version string) (DependencySpec, bool) {
	const prefix = "npm:"
	if !strings.HasPrefix(version, prefix) {
		return DependencySpec{}, false
	}

	rest := version[len(prefix):]
	if at := strings.Index(rest, "@"); at >= 0 {
		return DependencySpec{PackageName: rest[:at], Version: rest[at+1:]}, true
	}
	return DependencySpec{PackageName: rest}, true
}
