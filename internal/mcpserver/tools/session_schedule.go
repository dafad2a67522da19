// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// session_schedule tool: generate and persist a stored session's schedule.

package tools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/db"
	serr "ladder-mcp/internal/errors"
	"ladder-mcp/internal/safety"
)

// SessionScheduleInput input for session_schedule.
type SessionScheduleInput struct {
	SessionID      string `json:"session_id" jsonschema:"stored session id"`
	Mode           string `json:"mode,omitempty" jsonschema:"override the session's mode"`
	GamesPerPlayer int    `json:"games_per_player,omitempty" jsonschema:"override the session's games per player"`
	Restarts       int    `json:"restarts,omitempty"`
	Seed           uint64 `json:"seed,omitempty"`
	DryRun         bool   `json:"dry_run,omitempty" jsonschema:"generate and validate without saving"`
	ApprovalToken  string `json:"approval_token,omitempty" jsonschema:"required to replace an existing schedule"`
}

// SessionScheduleOutput output.
type SessionScheduleOutput struct {
	Session  db.Session             `json:"session"`
	Result   GenerateScheduleOutput `json:"result"`
	Saved    bool                   `json:"saved"`
	Replaced int                    `json:"replaced,omitempty"`
}

func SessionSchedule(ctx context.Context, deps Dependencies, input SessionScheduleInput) (*mcp.CallToolResult, SessionScheduleOutput, error) {
	if deps.Store == nil {
		return toolError(serr.NewStoreUnavailable()), SessionScheduleOutput{}, nil
	}
	if input.SessionID == "" {
		return callError(serr.CodeInvalidInput, "session_id required", ""), SessionScheduleOutput{}, nil
	}
	sess, err := deps.Store.LoadSession(ctx, input.SessionID)
	if err != nil {
		return toolError(storeError(err, input.SessionID)), SessionScheduleOutput{}, nil
	}
	rawMode := input.Mode
	if rawMode == "" {
		rawMode = string(sess.Mode)
	}
	mode, err := resolveMode(deps.Config, rawMode)
	if err != nil {
		return toolError(err), SessionScheduleOutput{}, nil
	}
	games := input.GamesPerPlayer
	if games == 0 {
		games = sess.GamesPerPlayer
	}
	if games == 0 {
		games = deps.Config.DefaultGamesPerPlayer
	}
	players, err := deps.Store.LoadRoster(ctx, sess.ID)
	if err != nil {
		return toolError(storeError(err, sess.ID)), SessionScheduleOutput{}, nil
	}

	sched, err := generate(ctx, deps, sess.ID, players, games, mode, input.Restarts, input.Seed)
	if err != nil {
		return toolError(err), SessionScheduleOutput{}, nil
	}
	res, err := accept(deps, sched, players)
	if err != nil {
		return toolError(err), SessionScheduleOutput{}, nil
	}
	out := SessionScheduleOutput{Session: sess, Result: scheduleOutput(sched, res, players)}
	if input.DryRun {
		return nil, out, nil
	}

	if err := deps.Guardrails.RequireWriteAllowed(); err != nil {
		return toolError(err), SessionScheduleOutput{}, nil
	}
	counts, err := deps.Store.CountMatches(ctx, sess.ID)
	if err != nil {
		return toolError(storeError(err, sess.ID)), SessionScheduleOutput{}, nil
	}
	if counts.Scored > 0 {
		return callError(serr.CodeConflict, "session already has scored matches", "record a new session instead"), SessionScheduleOutput{}, nil
	}
	if counts.Total > 0 {
		if err := deps.Guardrails.RequireApproval(input.ApprovalToken, safety.ReplaceScheduleAction(sess.ID)); err != nil {
			return toolError(err), SessionScheduleOutput{}, nil
		}
	}
	if err := deps.Store.ReplaceSchedule(ctx, sess.ID, sched); err != nil {
		return toolError(storeError(err, sess.ID)), SessionScheduleOutput{}, nil
	}
	if deps.Standings != nil {
		deps.Standings.Delete(sess.ID)
	}
	deps.Logger.Info("session schedule saved",
		zap.String("session_id", sess.ID),
		zap.Int("matches", len(sched.Matches)),
		zap.Int("replaced", counts.Total))
	out.Saved = true
	out.Replaced = counts.Total
	return nil, out, nil
}

// storeError maps store sentinels onto tool errors.
func storeError(err error, sessionID string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return serr.NewNotFound("session", sessionID)
	case errors.Is(err, db.ErrSessionHasResults):
		return serr.New(serr.CodeConflict, "session already has scored matches", "record a new session instead", map[string]any{"session": sessionID})
	case errors.Is(err, context.DeadlineExceeded):
		return serr.New(serr.CodeTimeout, "store timed out", "retry later", nil)
	}
	return err
}
