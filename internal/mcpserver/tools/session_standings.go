// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// session_standings tool with per-session caching.

package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	serr "ladder-mcp/internal/errors"
	"ladder-mcp/internal/standings"
)

// SessionStandingsInput input for session_standings.
type SessionStandingsInput struct {
	SessionID string `json:"session_id" jsonschema:"stored session id"`
	Refresh   bool   `json:"refresh,omitempty" jsonschema:"bypass the cache"`
}

func SessionStandings(ctx context.Context, deps Dependencies, input SessionStandingsInput) (*mcp.CallToolResult, StandingsOutput, error) {
	if deps.Store == nil {
		return toolError(serr.NewStoreUnavailable()), StandingsOutput{}, nil
	}
	if input.SessionID == "" {
		return callError(serr.CodeInvalidInput, "session_id required", ""), StandingsOutput{}, nil
	}
	caching := deps.Config.EnableCaching && deps.Standings != nil
	if caching && !input.Refresh {
		if out, ok := deps.Standings.Get(input.SessionID); ok {
			out.Cached = true
			return nil, out, nil
		}
	}

	sess, err := deps.Store.LoadSession(ctx, input.SessionID)
	if err != nil {
		return toolError(storeError(err, input.SessionID)), StandingsOutput{}, nil
	}
	players, err := deps.Store.LoadRoster(ctx, sess.ID)
	if err != nil {
		return toolError(storeError(err, sess.ID)), StandingsOutput{}, nil
	}
	matches, err := deps.Store.LoadMatches(ctx, sess.ID)
	if err != nil {
		return toolError(storeError(err, sess.ID)), StandingsOutput{}, nil
	}
	out := StandingsOutput{SessionID: sess.ID, Rows: standings.Compute(players, matches), Scored: scoredCount(matches)}
	deps.Metrics.StandingsComputed()
	if caching {
		deps.Standings.Set(sess.ID, out, time.Duration(deps.Config.CacheTTLSeconds)*time.Second)
	}
	return nil, out, nil
}
