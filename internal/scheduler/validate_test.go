// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for schedule validation.

package scheduler

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCatchesDoubleBooking(t *testing.T) {
	players := numbered(8)
	matches := []Match{
		// round 1: p01 twice
		m("p01", "p02", "p03", "p04"),
		m("p01", "p05", "p06", "p07"),
		// round 2: fine
		m("p01", "p03", "p05", "p07"),
		m("p02", "p04", "p06", "p08"),
	}
	res := Validate(matches, players)
	if res.Valid {
		t.Fatalf("expected invalid schedule")
	}
	if res.RoundSize != 2 || res.Rounds != 2 {
		t.Fatalf("expected 2 rounds of 2, got %d rounds of %d", res.Rounds, res.RoundSize)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", res.Violations)
	}
	v := res.Violations[0]
	if v.Round != 1 || v.Kind != ViolationDoubleBooked || len(v.PlayerIDs) != 1 || v.PlayerIDs[0] != "p01" {
		t.Fatalf("unexpected violation %+v", v)
	}

	err := res.Err()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "round 1") || !strings.Contains(err.Error(), "p01") {
		t.Fatalf("message should name round and player: %s", err)
	}
}

func TestValidateAcceptsGoodSchedule(t *testing.T) {
	players := numbered(8)
	matches := []Match{
		m("p01", "p02", "p03", "p04"),
		m("p05", "p06", "p07", "p08"),
		m("p01", "p05", "p02", "p06"),
	}
	res := Validate(matches, players)
	if !res.Valid || res.Err() != nil {
		t.Fatalf("expected valid schedule, got %v", res.Violations)
	}
}

func TestValidateFlagsMalformedMatch(t *testing.T) {
	players := numbered(4)
	matches := []Match{
		{TeamA: []string{"p01", "p02", "p03"}, TeamB: []string{"p04"}},
		m("p01", "p01", "p02", "p03"),
	}
	res := Validate(matches, players)
	malformedCount := 0
	for _, v := range res.Violations {
		if v.Kind == ViolationMalformedMatch {
			malformedCount++
		}
	}
	if malformedCount != 2 {
		t.Fatalf("expected 2 malformed matches, got %v", res.Violations)
	}
}

func TestValidateRepeatWithinMatchIsOnlyMalformed(t *testing.T) {
	res := Validate([]Match{m("p01", "p01", "p02", "p03")}, numbered(4))
	if len(res.Violations) != 1 {
		t.Fatalf("expected a single violation, got %v", res.Violations)
	}
	if v := res.Violations[0]; v.Kind != ViolationMalformedMatch || v.Round != 1 || v.Match != 1 {
		t.Fatalf("unexpected violation %+v", v)
	}
}

func TestValidateSmallRosterRoundsOfOne(t *testing.T) {
	players := numbered(5)
	matches := []Match{m("p01", "p02", "p03", "p04"), m("p01", "p02", "p03", "p05")}
	if res := Validate(matches, players); !res.Valid {
		t.Fatalf("rounds of one match cannot double-book: %v", res.Violations)
	}
}
