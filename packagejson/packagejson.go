// Package packagejson models package.json and edits it surgically —
// updates touch only the dependency key being changed, leaving the
// rest of the file's formatting untouched.
package packagejson

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ernesto27/craft/internal/pipeerr"
)

// PackageJSON is a parsed package.json. Dependency fields are kept as
// `any` rather than `map[string]string` because real-world manifests
// occasionally carry malformed shapes (npm itself tolerates these);
// GetDependencies et al. normalize defensively via extractDependencyMap.
type PackageJSON struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Description          string            `json:"description,omitempty"`
	Author               any               `json:"author,omitempty"`
	License              any               `json:"license,omitempty"`
	Repository           any               `json:"repository,omitempty"`
	Homepage             string            `json:"homepage,omitempty"`
	Keywords             []string          `json:"keywords,omitempty"`
	Dependencies         any               `json:"dependencies,omitempty"`
	DevDependencies      any               `json:"devDependencies,omitempty"`
	OptionalDependencies any               `json:"optionalDependencies,omitempty"`
	PeerDependencies     any               `json:"peerDependencies,omitempty"`
	Engines              map[string]string `json:"engines,omitempty"`
	Main                 string            `json:"main,omitempty"`
	Bin                  any               `json:"bin,omitempty"`
	Scripts              map[string]string `json:"scripts,omitempty"`
	Private              bool              `json:"private,omitempty"`
}

func (p *PackageJSON) GetDependencies() map[string]string {
	return extractDependencyMap(p.Dependencies)
}

func (p *PackageJSON) GetDevDependencies() map[string]string {
	return extractDependencyMap(p.DevDependencies)
}

func (p *PackageJSON) GetOptionalDependencies() map[string]string {
	return extractDependencyMap(p.OptionalDependencies)
}

func (p *PackageJSON) GetPeerDependencies() map[string]string {
	return extractDependencyMap(p.PeerDependencies)
}

func extractDependencyMap(deps any) map[string]string {
	if deps == nil {
		return make(map[string]string)
	}

	if m, ok := deps.(map[string]any); ok {
		result := make(map[string]string, len(m))
		for k, v := range m {
			if str, ok := v.(string); ok {
				result[k] = str
			}
		}
		return result
	}

	if m, ok := deps.(map[string]string); ok {
		return m
	}

	return make(map[string]string)
}

// Parser reads and surgically edits a single package.json file.
type Parser struct {
	FilePath string
	raw      []byte
	pkg      *PackageJSON
}

// NewParser builds a Parser targeting the given package.json path.
func NewParser(filePath string) *Parser {
	return &Parser{FilePath: filePath}
}

// ParseDefault parses "package.json" in the current directory. A missing
// file is reported as pipeerr.ErrNoPackageJSON.
func ParseDefault() (*PackageJSON, *Parser, error) {
	p := NewParser("package.json")
	pkg, err := p.Parse()
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %v", pipeerr.ErrNoPackageJSON, err)
	}
	return pkg, p, err
}

// Parse reads and unmarshals the parser's package.json, caching the
// raw bytes so later edits can be applied surgically.
func (p *Parser) Parse() (*PackageJSON, error) {
	content, err := os.ReadFile(p.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", p.FilePath, err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from file %s: %w", p.FilePath, err)
	}

	p.raw = content
	p.pkg = &pkg

	return &pkg, nil
}

func dependencyField(isDev bool) string {
	if isDev {
		return "devDependencies"
	}
	return "dependencies"
}

// AddOrUpdateDependency sets name's version under "dependencies" or
// "devDependencies" (per isDev), rewriting the file in place. New
// entries get sjson's default formatting fixed up to match the rest of
// the file's two-space indentation.
func (p *Parser) AddOrUpdateDependency(name, version string, isDev bool) error {
	if p.pkg == nil || p.raw == nil {
		return fmt.Errorf("package.json not loaded, call Parse() first")
	}

	field := dependencyField(isDev)
	jsonStr := string(p.raw)

	existing := gjson.Get(jsonStr, field+"."+name)
	isNewDependency := !existing.Exists()

	jsonStr, err := sjson.SetRaw(jsonStr, field+"."+name, fmt.Sprintf(`"%s"`, version))
	if err != nil {
		return fmt.Errorf("failed to update dependency: %w", err)
	}

	if isNewDependency {
		malformed := "\n  ,\"" + name + `":"` + version + `"}`
		wellFormed := `,` + "\n" + `    "` + name + `": "` + version + `"` + "\n  }"
		jsonStr = strings.Replace(jsonStr, malformed, wellFormed, 1)
	}

	if err := os.WriteFile(p.FilePath, []byte(jsonStr), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", p.FilePath, err)
	}

	p.raw = []byte(jsonStr)
	if isDev {
		p.pkg.DevDependencies = mergeDependency(p.pkg.GetDevDependencies(), name, version)
	} else {
		p.pkg.Dependencies = mergeDependency(p.pkg.GetDependencies(), name, version)
	}

	return nil
}

func mergeDependency(deps map[string]string, name, version string) map[string]string {
	deps[name] = version
	return deps
}

// RemoveDependency deletes name from whichever of "dependencies" or
// "devDependencies" it appears in, rewriting the file in place.
func (p *Parser) RemoveDependency(name string) error {
	if p.pkg == nil || p.raw == nil {
		return fmt.Errorf("package.json not loaded, call Parse() first")
	}

	field := ""
	if _, ok := p.pkg.GetDependencies()[name]; ok {
		field = "dependencies"
	} else if _, ok := p.pkg.GetDevDependencies()[name]; ok {
		field = "devDependencies"
	} else {
		return fmt.Errorf("dependency %q not found in %s", name, p.FilePath)
	}

	jsonStr, err := sjson.Delete(string(p.raw), field+"."+name)
	if err != nil {
		return fmt.Errorf("failed to remove dependency from %s: %w", p.FilePath, err)
	}

	if err := os.WriteFile(p.FilePath, []byte(jsonStr), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", p.FilePath, err)
	}

	p.raw = []byte(jsonStr)
	if field == "dependencies" {
		deps := p.pkg.GetDependencies()
		delete(deps, name)
		p.pkg.Dependencies = deps
	} else {
		deps := p.pkg.GetDevDependencies()
		delete(deps, name)
		p.pkg.DevDependencies = deps
	}

	return nil
}
