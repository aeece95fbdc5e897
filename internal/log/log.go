// Package log is a small leveled logger for the pipeline's debug/trace
// output. It writes to stderr so stdout stays free for the CLI's own
// progress and summary lines.
package log

import (
	"fmt"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose = os.Getenv("CRAFT_VERBOSE") != ""
)

// SetVerbose overrides the CRAFT_VERBOSE-derived default, mainly for tests.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Tracef prints only when verbose output is enabled.
func Tracef(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}

// Warnf always prints; used for skippable-but-notable conditions (a
// candidate with unparseable semver, a failed chmod, a missing root
// match) per the spec's "log and skip" propagation policy.
func Warnf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
