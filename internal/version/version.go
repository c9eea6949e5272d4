// Package version holds build-time version information.
package version

// Set via -ldflags "-X github.com/kailas-cloud/topiclens/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
)
