// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// compute_standings tool.

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"ladder-mcp/internal/scheduler"
	"ladder-mcp/internal/standings"
)

// ComputeStandingsInput input for compute_standings.
type ComputeStandingsInput struct {
	Players []scheduler.Player `json:"players,omitempty" jsonschema:"roster; players missing here still get a row"`
	Matches []scheduler.Match  `json:"matches" jsonschema:"matches; only those with both scores count"`
}

// StandingsOutput is shared by compute_standings and session_standings.
type StandingsOutput struct {
	SessionID string          `json:"session_id,omitempty"`
	Rows      []standings.Row `json:"rows"`
	Scored    int             `json:"scored_matches"`
	Cached    bool            `json:"cached,omitempty"`
}

func ComputeStandings(ctx context.Context, deps Dependencies, input ComputeStandingsInput) (*mcp.CallToolResult, StandingsOutput, error) {
	rows := standings.Compute(input.Players, input.Matches)
	deps.Metrics.StandingsComputed()
	return nil, StandingsOutput{Rows: rows, Scored: scoredCount(input.Matches)}, nil
}

func scoredCount(matches []scheduler.Match) int {
	n := 0
	for _, m := range matches {
		if m.Scored() {
			n++
		}
	}
	return n
}
