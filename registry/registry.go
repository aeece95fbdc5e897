// Package registry is the HTTP client boundary against
// registry.npmjs.org: JSON packument fetches and the typed shapes the
// resolver selects a version from.
package registry

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ernesto27/craft/internal/pipeerr"
)

// Packument is the top-level per-package registry document.
type Packument struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	DistTags    map[string]string          `json:"dist-tags"`
	Versions    map[string]PackageManifest `json:"versions"`
	Homepage    any                        `json:"homepage"`
	Keywords    any                        `json:"keywords"`
	Maintainers any                        `json:"maintainers"`
	Time        map[string]string          `json:"time"`
	License     any                        `json:"license"`
}

// PackageManifest is a single version's manifest within a packument.
type PackageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Dist            Dist              `json:"dist"`
	Bin             any               `json:"bin"`
	OS              []string          `json:"os"`
	CPU             []string          `json:"cpu"`
	License         any               `json:"license"`
}

// Dist carries the tarball location and its recorded integrity hash.
type Dist struct {
	Tarball      string `json:"tarball"`
	Integrity    string `json:"integrity"`
	Shasum       string `json:"shasum"`
	UnpackedSize int    `json:"unpackedSize"`
}

const DefaultURL = "https://registry.npmjs.org/"

// Client fetches packuments over HTTP. BaseURL defaults to the public
// registry but is swappable in tests via httptest.NewServer.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Client pointed at the public npm registry.
func NewClient() *Client {
	return &Client{BaseURL: DefaultURL, HTTPClient: http.DefaultClient}
}

// FetchPackument performs GET {BaseURL}{packageName} and decodes the
// JSON response into a Packument.
func (c *Client) FetchPackument(packageName string) (*Packument, error) {
	url := c.BaseURL + packageName

	resp, err := c.HTTPClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", pipeerr.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: package %q", pipeerr.ErrNotFound, packageName)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", pipeerr.ErrNetwork, url, resp.StatusCode)
	}

	var p Packument
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decoding packument for %s: %v", pipeerr.ErrParse, packageName, err)
	}

	return &p, nil
}
