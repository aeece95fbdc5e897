// Package info prints npm registry metadata for a single package,
// adapted from the teacher's lipgloss-styled display to query the
// registry client directly rather than a cached manifest store.
package info

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"

	"github.com/ernesto27/craft/internal/pipeerr"
	"github.com/ernesto27/craft/registry"
)

var (
	nameStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("cyan"))
	versionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	licenseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("magenta"))
	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	urlStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("blue")).Underline(true)
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	maintainerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	dateStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Info fetches and displays package information from the registry.
type Info struct {
	client *registry.Client
}

func New(client *registry.Client) *Info {
	return &Info{client: client}
}

// Show fetches pkgName's packument and prints requestedVersion (or the
// dist-tags "latest" if empty) to stdout.
func (i *Info) Show(pkgName, requestedVersion string) error {
	pkg, err := i.client.FetchPackument(pkgName)
	if err != nil {
		return err
	}

	resolved, err := resolveVersion(pkg, requestedVersion)
	if err != nil {
		return err
	}

	manifest, ok := pkg.Versions[resolved]
	if !ok {
		return fmt.Errorf("%w: version %q of %q", pipeerr.ErrNotFound, resolved, pkgName)
	}

	printPackageInfo(pkg, &manifest, resolved)
	return nil
}

// resolveVersion picks requestedVersion directly if it names an exact
// known version, otherwise the highest version satisfying it as a
// semver range, falling back to dist-tags "latest" when empty.
func resolveVersion(pkg *registry.Packument, requested string) (string, error) {
	if requested == "" {
		if latest := pkg.DistTags["latest"]; latest != "" {
			return latest, nil
		}
		return "", fmt.Errorf("%w: %s has no dist-tags.latest", pipeerr.ErrNotFound, pkg.Name)
	}

	if _, ok := pkg.Versions[requested]; ok {
		return requested, nil
	}

	constraint, err := semver.NewConstraint(requested)
	if err != nil {
		return "", fmt.Errorf("%w: %s has no version %q", pipeerr.ErrNotFound, pkg.Name, requested)
	}

	var best *semver.Version
	var bestRaw string
	for raw := range pkg.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	if best == nil {
		return "", fmt.Errorf("%w: no version of %s satisfies %q", pipeerr.ErrNotFound, pkg.Name, requested)
	}
	return bestRaw, nil
}

func printPackageInfo(pkg *registry.Packument, ver *registry.PackageManifest, resolvedVersion string) {
	license := extractLicense(ver.License, pkg.License)
	depsCount := len(ver.Dependencies)
	versionsCount := len(pkg.Versions)

	fmt.Printf("%s@%s | %s | %s %d | %s %d\n",
		nameStyle.Render(pkg.Name),
		versionStyle.Render(resolvedVersion),
		licenseStyle.Render(license),
		keyStyle.Render("deps:"), depsCount,
		keyStyle.Render("versions:"), versionsCount)

	if pkg.Description != "" {
		fmt.Println(pkg.Description)
	}

	if homepage := extractString(pkg.Homepage); homepage != "" {
		fmt.Println(urlStyle.Render(homepage))
	}

	if keywords := extractKeywords(pkg.Keywords); len(keywords) > 0 {
		fmt.Printf("%s %s\n", keyStyle.Render("keywords:"), keywordStyle.Render(strings.Join(keywords, ", ")))
	}

	fmt.Println()

	fmt.Println(headerStyle.Render("dist"))
	fmt.Printf(" %s %s\n", keyStyle.Render(".tarball:"), urlStyle.Render(ver.Dist.Tarball))
	if ver.Dist.Shasum != "" {
		fmt.Printf(" %s %s\n", keyStyle.Render(".shasum:"), ver.Dist.Shasum)
	}
	if ver.Dist.Integrity != "" {
		fmt.Printf(" %s %s\n", keyStyle.Render(".integrity:"), ver.Dist.Integrity)
	}
	if ver.Dist.UnpackedSize > 0 {
		fmt.Printf(" %s %s\n", keyStyle.Render(".unpackedSize:"), versionStyle.Render(formatBytes(ver.Dist.UnpackedSize)))
	}

	fmt.Println()

	fmt.Println(headerStyle.Render("dist-tags:"))
	printDistTags(pkg.DistTags)

	if maintainers := extractMaintainers(pkg.Maintainers); len(maintainers) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("maintainers:"))
		for _, m := range maintainers {
			if m.Email != "" {
				fmt.Printf("- %s %s\n", maintainerStyle.Render(m.Name), keyStyle.Render("<"+m.Email+">"))
			} else {
				fmt.Printf("- %s\n", maintainerStyle.Render(m.Name))
			}
		}
	}

	if pubDate, ok := pkg.Time[resolvedVersion]; ok {
		fmt.Println()
		fmt.Printf("%s %s\n", keyStyle.Render("Published:"), dateStyle.Render(pubDate))
	}
}

type maintainer struct {
	Name  string
	Email string
}

func extractLicense(values ...any) string {
	for _, lic := range values {
		switch v := lic.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if t, ok := v["type"].(string); ok {
				return t
			}
		}
	}
	return "Unknown"
}

func extractString(v any) string {
	s, _ := v.(string)
	return s
}

func extractKeywords(v any) []string {
	switch kw := v.(type) {
	case []any:
		result := make([]string, 0, len(kw))
		for _, k := range kw {
			if s, ok := k.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return kw
	}
	return nil
}

func extractMaintainers(v any) []maintainer {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]maintainer, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		m := maintainer{}
		if name, ok := obj["name"].(string); ok {
			m.Name = name
		}
		if email, ok := obj["email"].(string); ok {
			m.Email = email
		}
		if m.Name != "" {
			result = append(result, m)
		}
	}
	return result
}

func printDistTags(tags map[string]string) {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%s %s\n", keyStyle.Render(k+":"), versionStyle.Render(tags[k]))
	}
}

func formatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
