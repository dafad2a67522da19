// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for TTL cache.

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New[string]()
	c.Set("k", "v", time.Second)
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %v", v)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New[int]()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Set("k", 7, time.Second)
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[int]()
	c.Set("k", 1, 0)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to be deleted")
	}
}
