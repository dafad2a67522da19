// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for bounded fan-out.

package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestFanoutKeepsOrder(t *testing.T) {
	res, err := Fanout(context.Background(), Indexes(50), 4, func(ctx context.Context, i int) (int, error) {
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("Fanout error: %v", err)
	}
	if len(res) != 50 {
		t.Fatalf("expected 50 results, got %d", len(res))
	}
	for i, v := range res {
		if v != i*i {
			t.Fatalf("result %d = %d, want %d", i, v, i*i)
		}
	}
}

func TestFanoutRespectsLimit(t *testing.T) {
	var running, peak int32
	_, err := Fanout(context.Background(), Indexes(40), 3, func(ctx context.Context, i int) (struct{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Fanout error: %v", err)
	}
	if peak > 3 {
		t.Fatalf("expected at most 3 concurrent calls, saw %d", peak)
	}
}

func TestFanoutReturnsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fanout(context.Background(), Indexes(10), 2, func(ctx context.Context, i int) (int, error) {
		if i == 5 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFanoutCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fanout(ctx, Indexes(5), 1, func(ctx context.Context, i int) (int, error) {
		return i, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
