// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Global penalty of a complete schedule.

package scheduler

// Breakdown splits a schedule penalty into its terms.
type Breakdown struct {
	MissedPartners  int     `json:"missed_partners"`
	RepeatPartners  int     `json:"repeat_partners"`
	MissedOpponents int     `json:"missed_opponents"`
	SkillCost       float64 `json:"skill_cost"`
	Total           float64 `json:"total"`
}

// Evaluate scores a complete schedule against the roster. Lower is better.
// Globally only gaps are punished: repeat opponents carry no penalty here,
// they are discouraged match by match during construction instead.
func Evaluate(matches []Match, players []Player, w Weights) float64 {
	return evaluate(matches, players, w).Total
}

// Explain returns the same penalty as Evaluate with per-term counts.
func Explain(matches []Match, players []Player, w Weights) Breakdown {
	return evaluate(matches, players, w)
}

func evaluate(matches []Match, players []Player, w Weights) Breakdown {
	stats := replay(players, matches)
	var b Breakdown
	for _, a := range players {
		for _, o := range players {
			if a.ID == o.ID {
				continue
			}
			switch n := stats.partnerCount(a.ID, o.ID); {
			case n == 0:
				b.MissedPartners++
			case n > 1:
				b.RepeatPartners += n - 1
			}
			if stats.opponentCount(a.ID, o.ID) == 0 {
				b.MissedOpponents++
			}
		}
	}

	skills := make(map[string]float64, len(players))
	for _, p := range players {
		skills[p.ID] = p.Skill()
	}
	group := make([]float64, 0, 4)
	for _, m := range matches {
		group = group[:0]
		for _, id := range m.PlayerIDs() {
			group = append(group, skills[id])
		}
		b.SkillCost += w.skillCost(group)
	}

	b.Total = float64(b.MissedPartners)*w.MissedPartner +
		float64(b.RepeatPartners)*w.RepeatPartner +
		float64(b.MissedOpponents)*w.MissedOpponent +
		b.SkillCost
	return b
}
