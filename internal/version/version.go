package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/rigkit/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/rigkit/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/rigkit/internal/version.Date={{.Date}}
)

// String formats the build information for display
func String() string {
	if Commit == "unknown" && Date == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
