package cmd

import (
	"context"
	"fmt"

	"github.com/ernesto27/craft/cache"
	"github.com/ernesto27/craft/config"
	"github.com/ernesto27/craft/linker"
	"github.com/ernesto27/craft/lockfile"
	"github.com/ernesto27/craft/pipeline"
	"github.com/ernesto27/craft/pkgspec"
	"github.com/ernesto27/craft/progress"
	"github.com/ernesto27/craft/resolver"
)

const (
	lockFileJSON   = "craft-lock.json"
	lockFileBinary = "craft.bin"
)

// runInstallPipeline resolves, downloads, and links roots against cfg's
// cache, then writes the resulting lockfile. It is shared by the
// default install command and `craft add`.
func runInstallPipeline(cfg *config.Config, roots []pkgspec.PackageSpec, verbose bool) ([]resolver.ResolvedArtifact, error) {
	prog := progress.New(getVersion(), verbose)
	prog.Start()

	res := resolver.New()
	coord := cache.NewCoordinator()
	pipe := pipeline.New(cfg, res, coord)

	prog.SetStatus("Resolving dependencies...")
	artifacts, err := pipe.Run(context.Background(), roots)
	if err != nil {
		return nil, fmt.Errorf("install failed: %w", err)
	}
	for range artifacts {
		prog.IncrementCount()
	}

	prog.SetStatus("Linking node_modules...")
	link, err := linker.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize linker: %w", err)
	}
	if err := link.Run(context.Background(), artifacts, roots); err != nil {
		return nil, fmt.Errorf("linking failed: %w", err)
	}

	if err := writeLockfile(artifacts); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	for _, root := range roots {
		prog.AddTopLevel(root.Name, root.Version)
	}
	prog.Finish()

	return artifacts, nil
}

func writeLockfile(artifacts []resolver.ResolvedArtifact) error {
	lock := lockfile.New()
	for _, a := range artifacts {
		entry := lockfile.PackageEntry{
			Name:      a.Name,
			Version:   a.Version,
			Resolved:  a.DownloadURL,
			Integrity: a.Integrity,
		}
		if a.Package != nil {
			entry.Dependencies = a.Package.Dependencies
		}
		lock.Add(entry)
	}

	if err := lock.SaveJSON(lockFileJSON); err != nil {
		return err
	}
	return lock.SaveBinary(lockFileBinary)
}

// specsFromPackageJSON builds the root PackageSpec list from a parsed
// package.json's dependencies and devDependencies. When production is
// true, devDependencies are skipped.
func specsFromPackageJSON(deps, devDeps map[string]string, production bool) []pkgspec.PackageSpec {
	specs := make([]pkgspec.PackageSpec, 0, len(deps)+len(devDeps))
	for name, version := range deps {
		specs = append(specs, pkgspec.New(name, version, false))
	}
	if !production {
		for name, version := range devDeps {
			specs = append(specs, pkgspec.New(name, version, true))
		}
	}
	return specs
}
