// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Build version information set via ldflags.

package version

import "fmt"

// Name is the MCP implementation name advertised to clients.
const Name = "ladder-mcp"

// Set with -ldflags "-X ladder-mcp/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// BuildInfo contains version and build metadata.
type BuildInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns all version information as a struct.
func Info() BuildInfo {
	return BuildInfo{Name: Name, Version: Version, Commit: Commit, Date: Date}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", b.Name, b.Version, b.Commit, b.Date)
}
