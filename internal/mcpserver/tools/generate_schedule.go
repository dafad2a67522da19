// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// generate_schedule tool.

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"ladder-mcp/internal/advisor"
	"ladder-mcp/internal/scheduler"
)

// GenerateScheduleInput input for generate_schedule.
type GenerateScheduleInput struct {
	Players        []scheduler.Player `json:"players" jsonschema:"active roster; ids must be unique"`
	GamesPerPlayer int                `json:"games_per_player,omitempty" jsonschema:"games each player should play (default from config)"`
	Mode           string             `json:"mode,omitempty" jsonschema:"SOCIAL or COMPETITIVE"`
	Restarts       int                `json:"restarts,omitempty" jsonschema:"optimizer restarts, capped by server config"`
	Seed           uint64             `json:"seed,omitempty" jsonschema:"reproduce an earlier schedule"`
}

// GenerateScheduleOutput output.
type GenerateScheduleOutput struct {
	Schedule    scheduler.Schedule         `json:"schedule"`
	Rounds      [][]scheduler.Match        `json:"rounds"`
	Breakdown   scheduler.Breakdown        `json:"breakdown"`
	Validation  scheduler.ValidationResult `json:"validation"`
	Underfilled bool                       `json:"underfilled"`
	Review      advisor.Report             `json:"review"`
	Warnings    []string                   `json:"warnings,omitempty"`
}

func GenerateSchedule(ctx context.Context, deps Dependencies, input GenerateScheduleInput) (*mcp.CallToolResult, GenerateScheduleOutput, error) {
	mode, err := resolveMode(deps.Config, input.Mode)
	if err != nil {
		return toolError(err), GenerateScheduleOutput{}, nil
	}
	games := input.GamesPerPlayer
	if games == 0 {
		games = deps.Config.DefaultGamesPerPlayer
	}
	sched, err := generate(ctx, deps, "", input.Players, games, mode, input.Restarts, input.Seed)
	if err != nil {
		return toolError(err), GenerateScheduleOutput{}, nil
	}
	res, err := accept(deps, sched, input.Players)
	if err != nil {
		return toolError(err), GenerateScheduleOutput{}, nil
	}
	return nil, scheduleOutput(sched, res, input.Players), nil
}

func scheduleOutput(sched scheduler.Schedule, res scheduler.ValidationResult, players []scheduler.Player) GenerateScheduleOutput {
	out := GenerateScheduleOutput{
		Schedule:    sched,
		Rounds:      sched.Rounds(),
		Breakdown:   scheduler.Explain(sched.Matches, players, scheduler.WeightsFor(sched.Mode)),
		Validation:  res,
		Underfilled: sched.Underfilled(),
		Review:      advisor.Review(sched, players),
	}
	if len(players) < 4 {
		out.Warnings = append(out.Warnings, "fewer than 4 players: no matches can be formed")
	}
	if out.Underfilled && len(sched.Matches) > 0 {
		out.Warnings = append(out.Warnings, "fewer matches than targeted; some players are short of games")
	}
	return out
}
