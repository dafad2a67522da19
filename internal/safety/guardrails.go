// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Guardrails for writes, approvals and schedule size.

package safety

import (
	"fmt"
	"time"

	"ladder-mcp/internal/config"
	serr "ladder-mcp/internal/errors"
)

type Guardrails struct {
	admin          bool
	approvalSecret string
	approvalTTL    time.Duration
	maxRoster      int
	maxGames       int
}

func NewGuardrails(cfg config.Config) *Guardrails {
	return &Guardrails{
		admin:          cfg.Mode == config.ModeAdmin,
		approvalSecret: cfg.ApprovalSecret,
		approvalTTL:    5 * time.Minute,
		maxRoster:      cfg.MaxRosterSize,
		maxGames:       cfg.MaxGamesPerPlayer,
	}
}

// RequireWriteAllowed blocks persistence unless the server runs in admin mode.
func (g *Guardrails) RequireWriteAllowed() error {
	if !g.admin {
		return serr.NewPermissionDenied("writes disabled in read-only mode", "set mode=admin to persist schedules")
	}
	return nil
}

// RequireApproval validates a token issued for action.
func (g *Guardrails) RequireApproval(token, action string) error {
	if err := g.RequireWriteAllowed(); err != nil {
		return err
	}
	if token == "" {
		return serr.NewApprovalRequired(action)
	}
	if err := ValidateApprovalToken(g.approvalSecret, action, token); err != nil {
		return serr.New(serr.CodeApprovalRequired, "invalid approval token", err.Error(), map[string]any{"action": action})
	}
	return nil
}

func (g *Guardrails) GenerateApprovalToken(action string) (string, error) {
	if err := g.RequireWriteAllowed(); err != nil {
		return "", err
	}
	return GenerateApprovalToken(g.approvalSecret, action, g.approvalTTL)
}

// CheckScheduleSize keeps a single generation within the configured ceilings.
func (g *Guardrails) CheckScheduleSize(players, gamesPerPlayer int) error {
	if players > g.maxRoster {
		return serr.NewInvalidInput(
			fmt.Sprintf("roster of %d exceeds max_roster_size %d", players, g.maxRoster),
			"split the session or raise max_roster_size",
			map[string]any{"players": players, "max": g.maxRoster})
	}
	if gamesPerPlayer <= 0 || gamesPerPlayer > g.maxGames {
		return serr.NewInvalidInput(
			fmt.Sprintf("games_per_player must be in [1,%d]", g.maxGames),
			"",
			map[string]any{"games_per_player": gamesPerPlayer})
	}
	return nil
}

// ReplaceScheduleAction is the approval action for overwriting a session's schedule.
func ReplaceScheduleAction(sessionID string) string { return "replace_schedule:" + sessionID }
