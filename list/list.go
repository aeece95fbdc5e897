// Package list prints a tree of installed packages read from the
// flat-keyed lockfile — adapted from the teacher's nested
// package-lock.json walker to the {name}@{version}-keyed schema.
package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ernesto27/craft/lockfile"
)

// Lister prints a dependency tree rooted at a project's top-level
// dependencies, resolved against a flat Lockfile.
type Lister struct {
	Lock            *lockfile.Lockfile
	ProjectName     string
	Version         string
	Dependencies    map[string]string
	DevDependencies map[string]string
	ShowAll         bool
}

func New(lock *lockfile.Lockfile, projectName, version string, deps, devDeps map[string]string) *Lister {
	return &Lister{
		Lock:            lock,
		ProjectName:     projectName,
		Version:         version,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}
}

func (l *Lister) Print() {
	l.printHeader()
	l.printDependencies()
	fmt.Printf("\n%d packages\n", len(l.Lock.Packages))
}

func (l *Lister) printHeader() {
	if l.Version != "" {
		fmt.Printf("%s@%s\n", l.ProjectName, l.Version)
	} else {
		fmt.Println(l.ProjectName)
	}
}

// findByName returns the first lockfile entry whose Name matches,
// since the flat schema is keyed by name@version, not by tree
// position: with hoisted duplicates this picks an arbitrary match.
func (l *Lister) findByName(name string) (lockfile.PackageEntry, bool) {
	for _, entry := range l.Lock.Packages {
		if entry.Name == name {
			return entry, true
		}
	}
	return lockfile.PackageEntry{}, false
}

func (l *Lister) printDependencies() {
	names := make([]string, 0, len(l.Dependencies)+len(l.DevDependencies))
	isDev := make(map[string]bool, len(l.DevDependencies))
	for name := range l.Dependencies {
		names = append(names, name)
	}
	for name := range l.DevDependencies {
		if _, ok := l.Dependencies[name]; !ok {
			names = append(names, name)
			isDev[name] = true
		}
	}
	sort.Strings(names)

	for i, name := range names {
		prefix := "├──"
		if i == len(names)-1 {
			prefix = "└──"
		}
		entry, ok := l.findByName(name)
		if !ok {
			continue
		}
		l.printEntry(entry, prefix, "", isDev[name], 0, map[string]bool{})
	}
}

func (l *Lister) printEntry(entry lockfile.PackageEntry, prefix, indent string, dev bool, depth int, visited map[string]bool) {
	devLabel := ""
	if dev && depth == 0 {
		devLabel = " (dev)"
	}
	fmt.Printf("%s%s %s@%s%s\n", indent, prefix, entry.Name, entry.Version, devLabel)

	if !l.ShowAll || visited[entry.Key()] {
		return
	}
	visited[entry.Key()] = true

	subNames := make([]string, 0, len(entry.Dependencies))
	for name := range entry.Dependencies {
		subNames = append(subNames, name)
	}
	sort.Strings(subNames)

	newIndent := indent
	if strings.HasPrefix(prefix, "├") {
		newIndent += "│   "
	} else if strings.HasPrefix(prefix, "└") {
		newIndent += "    "
	}

	for i, name := range subNames {
		subEntry, ok := l.findByName(name)
		if !ok {
			continue
		}
		subPrefix := "├──"
		if i == len(subNames)-1 {
			subPrefix = "└──"
		}
		l.printEntry(subEntry, subPrefix, newIndent, false, depth+1, visited)
	}
}
