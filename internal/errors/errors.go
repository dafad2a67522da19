// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Custom error types and error codes for MCP responses.

package errors

import (
	"errors"
	"fmt"
	"regexp"
)

type ErrorCode string

const (
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeApprovalRequired ErrorCode = "APPROVAL_REQUIRED"
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeTimeout          ErrorCode = "TIMEOUT"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

type ToolError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ToolError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func New(code ErrorCode, msg, hint string, details map[string]any) *ToolError {
	return &ToolError{Code: code, Message: msg, Hint: hint, Details: sanitize(details)}
}

func NewInvalidInput(msg, hint string, details map[string]any) *ToolError {
	return New(CodeInvalidInput, msg, hint, details)
}

func NewPermissionDenied(msg, hint string) *ToolError {
	return New(CodePermissionDenied, msg, hint, nil)
}

func NewApprovalRequired(action string) *ToolError {
	return New(CodeApprovalRequired, "approval token required", "call request_approval_token and retry with the token", map[string]any{"action": action})
}

func NewStoreUnavailable() *ToolError {
	return New(CodeStoreUnavailable, "session store not configured", "set database_dsn to enable session tools", nil)
}

func NewNotFound(kind, id string) *ToolError {
	return New(CodeNotFound, kind+" not found", "", map[string]any{kind: id})
}

// NewValidationFailed carries the validator's description; the schedule
// was not persisted.
func NewValidationFailed(msg string, details map[string]any) *ToolError {
	return &ToolError{Code: CodeValidationFailed, Message: msg, Hint: "schedule not saved; regenerate or report", Details: details}
}

func NewInternal(err error) *ToolError {
	if err == nil {
		return New(CodeInternalError, "internal error", "see logs", nil)
	}
	return New(CodeInternalError, "internal error", "see logs", map[string]any{"cause": scrub(err.Error())})
}

// ToToolError converts any error to a ToolError;
// unknown errors are wrapped as internal error with scrubbed message.
func ToToolError(err error) *ToolError {
	if err == nil {
		return nil
	}
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return NewInternal(err)
}

func sanitize(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		out[k] = scrub(fmt.Sprint(v))
	}
	return out
}

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(postgres(?:ql)?://)[^@/\s]+@`),
	regexp.MustCompile(`(?i)((?:password|pwd|secret)\s*=\s*)\S+`),
}

// scrub best-effort masks credentials in free text.
func scrub(s string) string {
	out := secretPatterns[0].ReplaceAllString(s, "${1}***:***@")
	return secretPatterns[1].ReplaceAllString(out, "${1}***")
}
