// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for tool error conversion.

package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestToToolErrorWrapsUnknown(t *testing.T) {
	err := ToToolError(fmt.Errorf("boom: password=secret"))
	if err.Code != CodeInternalError {
		t.Fatalf("expected internal error code, got %s", err.Code)
	}
	if strings.Contains(fmt.Sprint(err.Details["cause"]), "secret") {
		t.Fatalf("expected scrubbed cause, got %v", err.Details["cause"])
	}
}

func TestToToolErrorUnwraps(t *testing.T) {
	inner := NewNotFound("session", "s1")
	err := ToToolError(fmt.Errorf("load: %w", inner))
	if err != inner {
		t.Fatalf("expected wrapped ToolError to be returned as-is, got %v", err)
	}
}

func TestScrubDSN(t *testing.T) {
	out := scrub("dial postgres://ladder:hunter2@db:5432/ladder failed")
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password leaked: %s", out)
	}
}

func TestNewInvalidInput(t *testing.T) {
	e := NewInvalidInput("bad", "hint", map[string]any{"field": "x"})
	if e.Code != CodeInvalidInput {
		t.Fatalf("expected %s, got %s", CodeInvalidInput, e.Code)
	}
}
