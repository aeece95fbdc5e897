// Package pipeerr defines the error taxonomy shared by every stage of the
// install pipeline: resolver, cache coordinator, unpacker and linker all
// wrap one of these sentinels so callers can discriminate failure classes
// with errors.Is instead of parsing message text.
package pipeerr

import "errors"

var (
	// ErrNetwork covers transport failures, non-2xx registry responses, DNS.
	ErrNetwork = errors.New("network error")
	// ErrParse covers malformed JSON, semver ranges or versions.
	ErrParse = errors.New("parse error")
	// ErrNotFound covers an unknown package, an unsatisfiable range, or a
	// manifest missing dist.tarball.
	ErrNotFound = errors.New("not found")
	// ErrIO covers filesystem, permission and symlink failures.
	ErrIO = errors.New("io error")
	// ErrUnzip covers a corrupted or unreadable tar/gzip stream.
	ErrUnzip = errors.New("unzip error")
	// ErrNoPackageJSON is returned when install/add/remove run outside a
	// project root.
	ErrNoPackageJSON = errors.New("no package.json in current directory")
)
