// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Local pairing heuristic: pick four players and the best team split.

package scheduler

import (
	"math"
	"sort"
)

// Rand is the randomness a restart needs. *rand.Rand from math/rand/v2
// satisfies it; each restart must own its own instance.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// splits lists the three ways to divide four players into two pairs.
var splits = [3][4]int{
	{0, 1, 2, 3},
	{0, 2, 1, 3},
	{0, 3, 1, 2},
}

type pairing struct {
	mode    Mode
	weights Weights
	rng     Rand
	stats   *playerStats
}

// pickMatch selects four players from eligible and records the resulting
// match in the running stats. It returns false when fewer than four are
// eligible.
func (p *pairing) pickMatch(eligible []Player) (Match, bool) {
	if len(eligible) < 4 {
		return Match{}, false
	}
	pool := make([]Player, len(eligible))
	copy(pool, eligible)
	p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	anchorIdx := 0
	for i := 1; i < len(pool); i++ {
		if p.stats.games[pool[i].ID] < p.stats.games[pool[anchorIdx].ID] {
			anchorIdx = i
		}
	}
	anchor := pool[anchorIdx]
	ranked := append(append([]Player{}, pool[:anchorIdx]...), pool[anchorIdx+1:]...)
	p.rank(anchor, ranked)

	group := p.strictGroup(anchor, ranked)
	group = fillGroup(group, ranked)

	teamA, teamB := p.bestSplit(group)
	p.stats.record(teamA, teamB)
	return Match{TeamA: teamA, TeamB: teamB}, true
}

// rank orders candidates in place. Social keeps the shuffled order;
// competitive sorts by skill distance to the anchor, stable so ties stay shuffled.
func (p *pairing) rank(anchor Player, candidates []Player) {
	if p.mode != ModeCompetitive {
		return
	}
	base := anchor.Skill()
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Skill()-base) < math.Abs(candidates[j].Skill()-base)
	})
}

// strictGroup grows a group from the anchor using only candidates who have
// never partnered anyone already in the group.
func (p *pairing) strictGroup(anchor Player, ranked []Player) []Player {
	group := []Player{anchor}
	for _, c := range ranked {
		if len(group) == 4 {
			break
		}
		fresh := true
		for _, m := range group {
			if p.stats.partnerCount(c.ID, m.ID) > 0 {
				fresh = false
				break
			}
		}
		if fresh {
			group = append(group, c)
		}
	}
	return group
}

// fillGroup tops the group up to four from the ranked list, ignoring
// partner history.
func fillGroup(group []Player, ranked []Player) []Player {
	in := make(map[string]struct{}, 4)
	for _, m := range group {
		in[m.ID] = struct{}{}
	}
	for _, c := range ranked {
		if len(group) == 4 {
			break
		}
		if _, ok := in[c.ID]; ok {
			continue
		}
		group = append(group, c)
		in[c.ID] = struct{}{}
	}
	return group
}

func (p *pairing) bestSplit(group []Player) ([]string, []string) {
	skills := make([]float64, len(group))
	for i, g := range group {
		skills[i] = g.Skill()
	}
	skill := p.weights.skillCost(skills)

	best := -1
	bestScore := math.Inf(1)
	for i, s := range splits {
		a1, a2, b1, b2 := group[s[0]].ID, group[s[1]].ID, group[s[2]].ID, group[s[3]].ID
		score := p.localScore(a1, a2, b1, b2) + skill
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	s := splits[best]
	return []string{group[s[0]].ID, group[s[1]].ID}, []string{group[s[2]].ID, group[s[3]].ID}
}

func (p *pairing) localScore(a1, a2, b1, b2 string) float64 {
	partners := p.stats.partnerCount(a1, a2) + p.stats.partnerCount(b1, b2)
	opponents := 0
	for _, a := range []string{a1, a2} {
		for _, b := range []string{b1, b2} {
			opponents += p.stats.opponentCount(a, b)
		}
	}
	return float64(partners)*p.weights.RepeatPartner + float64(opponents)*p.weights.RepeatOpponent
}
