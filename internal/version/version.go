// Package version carries build metadata set via -ldflags.
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

// String returns the version with the short commit, e.g. "dev (unknown)".
func String() string {
	sha := GitSHA
	if len(sha) > 8 {
		sha = sha[:8]
	}
	return fmt.Sprintf("%s (%s)", Version, sha)
}
