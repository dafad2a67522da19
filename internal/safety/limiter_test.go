// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for the generation limiter.

package safety

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiterBlocksWhenFull(t *testing.T) {
	l := NewLimiter(1)
	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	release()
	if _, err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after release error: %v", err)
	}
}
