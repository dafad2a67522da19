// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Greedy round-by-round schedule construction.

package scheduler

// construct builds one candidate schedule. It never fails: when no further
// match can be formed it returns what it has so far.
func construct(players []Player, gamesPerPlayer int, mode Mode, w Weights, rng Rand) []Match {
	total := TargetMatches(len(players), gamesPerPlayer)
	if total == 0 {
		return []Match{}
	}
	roundSize := RoundSize(len(players))
	p := &pairing{mode: mode, weights: w, rng: rng, stats: newPlayerStats(players)}

	var matches []Match
	placed := make(map[string]struct{}, len(players))
	inRound := 0
	eligible := make([]Player, 0, len(players))
	for len(matches) < total {
		eligible = eligible[:0]
		for _, pl := range players {
			if _, busy := placed[pl.ID]; busy {
				continue
			}
			if p.stats.games[pl.ID] >= pl.target(gamesPerPlayer) {
				continue
			}
			eligible = append(eligible, pl)
		}
		m, ok := p.pickMatch(eligible)
		if !ok {
			break
		}
		matches = append(matches, m)
		for _, id := range m.PlayerIDs() {
			placed[id] = struct{}{}
		}
		inRound++
		if inRound == roundSize {
			inRound = 0
			clear(placed)
		}
	}
	return matches
}
