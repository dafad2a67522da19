// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for Prometheus metrics.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGeneration(t *testing.T) {
	m := New()
	m.ObserveGeneration("SOCIAL", 120*time.Millisecond, true)
	m.ObserveGeneration("SOCIAL", 80*time.Millisecond, false)
	if got := testutil.ToFloat64(m.generations.WithLabelValues("SOCIAL")); got != 2 {
		t.Fatalf("expected 2 generations, got %f", got)
	}
	if got := testutil.ToFloat64(m.underfilled.WithLabelValues("SOCIAL")); got != 1 {
		t.Fatalf("expected 1 underfilled, got %f", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ValidationFailed()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "ladder_schedule_validation_failures_total 1") {
		t.Fatalf("metric missing from output")
	}
}
