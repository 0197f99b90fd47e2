// Package buildinfo exposes version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/cardforge/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/cardforge/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/cardforge/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version, e.g. "v1.2.3"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent to the compositing service.
func UserAgent() string {
	return "cardforge/" + Version
}
