package list

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ernesto27/craft/lockfile"
)

// captureStdout redirects os.Stdout for the duration of fn and writes
// everything written to it into out.
func captureStdout(t *testing.T, out *strings.Builder, fn func()) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	io.Copy(out, r)
}

func TestListerPrint(t *testing.T) {
	lock := lockfile.New()
	lock.Add(lockfile.PackageEntry{
		Name:         "express",
		Version:      "4.18.2",
		Dependencies: map[string]string{"accepts": "^1.3.8"},
	})
	lock.Add(lockfile.PackageEntry{Name: "jest", Version: "29.5.0"})
	lock.Add(lockfile.PackageEntry{Name: "accepts", Version: "1.3.8"})

	tests := []struct {
		name    string
		showAll bool
		want    []string
	}{
		{
			name:    "basic listing",
			showAll: false,
			want: []string{
				"test-project@1.0.0",
				"├── express@4.18.2",
				"└── jest@29.5.0 (dev)",
				"3 packages",
			},
		},
		{
			name:    "listing with sub-dependencies",
			showAll: true,
			want: []string{
				"test-project@1.0.0",
				"├── express@4.18.2",
				"│   └── accepts@1.3.8",
				"└── jest@29.5.0 (dev)",
				"3 packages",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lister := New(lock, "test-project", "1.0.0",
				map[string]string{"express": "^4.18.0"},
				map[string]string{"jest": "^29.0.0"})
			lister.ShowAll = tc.showAll

			var out strings.Builder
			captureStdout(t, &out, lister.Print)

			for _, line := range tc.want {
				if !strings.Contains(out.String(), line) {
					t.Errorf("expected output to contain %q, got:\n%s", line, out.String())
				}
			}
		})
	}
}
