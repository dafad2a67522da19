// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// request_approval_token tool.

package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"ladder-mcp/internal/config"
	serr "ladder-mcp/internal/errors"
	"ladder-mcp/internal/safety"
)

// RequestApprovalTokenInput input for request_approval_token.
type RequestApprovalTokenInput struct {
	Action     string `json:"action" jsonschema:"approval action, e.g. replace_schedule:<session_id>"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

// RequestApprovalTokenOutput output.
type RequestApprovalTokenOutput struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func requestApprovalTokenTool(ctx context.Context, deps Dependencies, input RequestApprovalTokenInput) (*mcp.CallToolResult, RequestApprovalTokenOutput, error) {
	if deps.Config.Mode != config.ModeAdmin {
		return callError(serr.CodePermissionDenied, "token issuance disabled", "set mode=admin"), RequestApprovalTokenOutput{}, nil
	}
	if input.Action == "" {
		return callError(serr.CodeInvalidInput, "action required", "use "+safety.ReplaceScheduleAction("<session_id>")), RequestApprovalTokenOutput{}, nil
	}
	ttl := input.TTLSeconds
	if ttl <= 0 {
		ttl = 300
	}
	tok, err := safety.GenerateApprovalToken(deps.Config.ApprovalSecret, input.Action, time.Duration(ttl)*time.Second)
	if err != nil {
		return callError(serr.CodeInternalError, err.Error(), "failed to generate token"), RequestApprovalTokenOutput{}, nil
	}
	exp := time.Now().Add(time.Duration(ttl) * time.Second)
	return nil, RequestApprovalTokenOutput{Token: tok, ExpiresAt: &exp}, nil
}
