// Package version provides build-time version information.
package version

import "fmt"

// Set with -ldflags "-X digit-canvas/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version for the about box and the CLI.
func String() string {
	return fmt.Sprintf("v%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
