// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Per-restart partner, opponent and games tallies.

package scheduler

import "fmt"

// playerStats accumulates games, partner and opponent counts for one
// candidate schedule. A fresh value is built for every restart.
type playerStats struct {
	games     map[string]int
	partners  map[string]map[string]int
	opponents map[string]map[string]int
}

func newPlayerStats(players []Player) *playerStats {
	s := &playerStats{
		games:     make(map[string]int, len(players)),
		partners:  make(map[string]map[string]int, len(players)),
		opponents: make(map[string]map[string]int, len(players)),
	}
	for _, p := range players {
		s.games[p.ID] = 0
		s.partners[p.ID] = map[string]int{}
		s.opponents[p.ID] = map[string]int{}
	}
	return s
}

func (s *playerStats) partnerCount(a, b string) int  { return s.partners[a][b] }
func (s *playerStats) opponentCount(a, b string) int { return s.opponents[a][b] }

func (s *playerStats) bump(m map[string]map[string]int, a, b string) {
	inner, ok := m[a]
	if !ok {
		inner = map[string]int{}
		m[a] = inner
	}
	inner[b]++
}

// record applies one match. Teams must hold exactly two players; anything
// else means the pairing code is broken.
func (s *playerStats) record(teamA, teamB []string) {
	if len(teamA) != 2 || len(teamB) != 2 {
		panic(fmt.Sprintf("scheduler: team sizes %d/%d, want 2/2", len(teamA), len(teamB)))
	}
	for _, team := range [][]string{teamA, teamB} {
		for _, id := range team {
			s.games[id]++
		}
		s.bump(s.partners, team[0], team[1])
		s.bump(s.partners, team[1], team[0])
	}
	for _, a := range teamA {
		for _, b := range teamB {
			s.bump(s.opponents, a, b)
			s.bump(s.opponents, b, a)
		}
	}
}

func replay(players []Player, matches []Match) *playerStats {
	s := newPlayerStats(players)
	for _, m := range matches {
		s.record(m.TeamA, m.TeamB)
	}
	return s
}
