// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// validate_schedule tool.

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/scheduler"
)

// ValidateScheduleInput input for validate_schedule.
type ValidateScheduleInput struct {
	Players []scheduler.Player `json:"players" jsonschema:"roster the schedule was built for"`
	Matches []scheduler.Match  `json:"matches" jsonschema:"matches in play order"`
}

// ValidateScheduleOutput output.
type ValidateScheduleOutput struct {
	Result   scheduler.ValidationResult `json:"result"`
	Messages []string                   `json:"messages,omitempty"`
}

// ValidateSchedule reports violations as data; an invalid schedule is not a tool error.
func ValidateSchedule(ctx context.Context, deps Dependencies, input ValidateScheduleInput) (*mcp.CallToolResult, ValidateScheduleOutput, error) {
	res := scheduler.Validate(input.Matches, input.Players)
	out := ValidateScheduleOutput{Result: res}
	for _, v := range res.Violations {
		out.Messages = append(out.Messages, v.String())
	}
	if !res.Valid {
		deps.Logger.Debug("schedule invalid", zap.Int("violations", len(res.Violations)))
	}
	return nil, out, nil
}
