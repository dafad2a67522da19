// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Penalty weights per schedule mode.

package scheduler

import "math"

// Weights holds the penalty constants for one run. Values are copied into
// every function that needs them; there is no package-level state.
type Weights struct {
	MissedOpponent float64 `json:"missed_opponent"`
	MissedPartner  float64 `json:"missed_partner"`
	RepeatPartner  float64 `json:"repeat_partner"`
	RepeatOpponent float64 `json:"repeat_opponent"`
	Skill          float64 `json:"skill"`
	// SquaredSkill switches the skill cost from absolute to squared differences.
	SquaredSkill bool `json:"squared_skill"`
}

// WeightsFor returns the default weights for mode.
func WeightsFor(mode Mode) Weights {
	if mode == ModeCompetitive {
		return Weights{
			MissedOpponent: 5000,
			MissedPartner:  200,
			RepeatPartner:  10000,
			RepeatOpponent: 200,
			Skill:          100,
			SquaredSkill:   true,
		}
	}
	return Weights{
		MissedOpponent: 5000,
		MissedPartner:  2000,
		RepeatPartner:  500,
		RepeatOpponent: 200,
		Skill:          10,
	}
}

// skillCost sums pairwise skill differences across the group.
func (w Weights) skillCost(skills []float64) float64 {
	var total float64
	for i := 0; i < len(skills); i++ {
		for j := i + 1; j < len(skills); j++ {
			d := skills[i] - skills[j]
			if w.SquaredSkill {
				total += d * d
			} else {
				total += math.Abs(d)
			}
		}
	}
	return total * w.Skill
}
