// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for a program named name.
func String(name string) string {
	return fmt.Sprintf("%s %s (git %s, built %s)", name, Version, GitSHA, BuildTime)
}
