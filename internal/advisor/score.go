// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Scoring logic for finding prioritization.

package advisor

// Severity to base score mapping.
var severityScore = map[string]int{
	"critical": 90,
	"warning":  60,
	"info":     25,
}

// ScoreFinding computes a score from severity and how many players it touches.
func ScoreFinding(f Finding) int {
	base := severityScore[f.Severity]
	if n := len(f.Players); n > 1 {
		add := (n - 1) * 5
		if add > 20 {
			add = 20
		}
		base += add
	}
	if base > 100 {
		base = 100
	}
	return base
}
