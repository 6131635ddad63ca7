// Package buildinfo carries version information stamped at link time:
//
//	go build -ldflags "-X github.com/skyf0l/basecracker/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/skyf0l/basecracker/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/skyf0l/basecracker/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON form served by the API health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build info.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the multi-line form printed by `basecracker --version`.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
