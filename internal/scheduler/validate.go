// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Round-exclusivity validation of a schedule.

package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// ViolationKind classifies a hard-constraint failure.
type ViolationKind string

const (
	ViolationDoubleBooked   ViolationKind = "double_booked"
	ViolationMalformedMatch ViolationKind = "malformed_match"
)

// Violation names the round (1-based) and the players at fault.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Round     int           `json:"round"`
	Match     int           `json:"match,omitempty"`
	PlayerIDs []string      `json:"player_ids"`
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationMalformedMatch:
		return fmt.Sprintf("round %d: match %d is malformed (players %s)", v.Round, v.Match, strings.Join(v.PlayerIDs, ", "))
	default:
		verb := "appears"
		if len(v.PlayerIDs) > 1 {
			verb = "appear"
		}
		return fmt.Sprintf("round %d: player %s %s more than once", v.Round, strings.Join(v.PlayerIDs, ", "), verb)
	}
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	RoundSize  int         `json:"round_size"`
	Rounds     int         `json:"rounds"`
	Violations []Violation `json:"violations,omitempty"`
}

// ValidationError is returned by ValidationResult.Err for an invalid schedule.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "schedule invalid: " + strings.Join(parts, "; ")
}

// Err returns nil for a valid schedule and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// Validate checks that no player appears twice within a round, with rounds
// sized from the roster, and that every match has two teams of two distinct
// players. It reports problems and never repairs them.
func Validate(matches []Match, players []Player) ValidationResult {
	size := RoundSize(len(players))
	rounds := chunk(matches, size)
	res := ValidationResult{RoundSize: size, Rounds: len(rounds)}

	for r, round := range rounds {
		seen := map[string]int{}
		for mi, m := range round {
			if malformed(m) {
				res.Violations = append(res.Violations, Violation{
					Kind:      ViolationMalformedMatch,
					Round:     r + 1,
					Match:     r*size + mi + 1,
					PlayerIDs: m.PlayerIDs(),
				})
			}
			// a repeat inside one match is malformed, not double booked
			inMatch := map[string]bool{}
			for _, id := range m.PlayerIDs() {
				if !inMatch[id] {
					inMatch[id] = true
					seen[id]++
				}
			}
		}
		var dup []string
		for id, n := range seen {
			if n > 1 {
				dup = append(dup, id)
			}
		}
		if len(dup) > 0 {
			sort.Strings(dup)
			res.Violations = append(res.Violations, Violation{Kind: ViolationDoubleBooked, Round: r + 1, PlayerIDs: dup})
		}
	}
	res.Valid = len(res.Violations) == 0
	return res
}

func malformed(m Match) bool {
	if len(m.TeamA) != 2 || len(m.TeamB) != 2 {
		return true
	}
	ids := m.PlayerIDs()
	for i := range ids {
		if ids[i] == "" {
			return true
		}
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return true
			}
		}
	}
	return false
}
