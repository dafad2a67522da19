// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Standings aggregation from recorded match scores.

package standings

import (
	"sort"

	"ladder-mcp/internal/scheduler"
)

// Record is a win/loss tally against one opponent.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Row is one player's line in the standings table.
type Row struct {
	PlayerID      string            `json:"player_id"`
	Name          string            `json:"name"`
	Rank          int               `json:"rank"`
	Wins          int               `json:"wins"`
	Losses        int               `json:"losses"`
	PointsFor     int               `json:"points_for"`
	PointsAgainst int               `json:"points_against"`
	Diff          int               `json:"diff"`
	GamesPlayed   int               `json:"games_played"`
	HeadToHead    map[string]Record `json:"head_to_head"`
	// Unlisted marks a player seen in match data but missing from the roster.
	Unlisted bool `json:"unlisted,omitempty"`
}

// Compute builds a fresh standings table. Rows are seeded from the roster;
// ids found only in match data get their own row. Unscored matches are
// ignored, and equal scores credit games and points but no win.
func Compute(players []scheduler.Player, matches []scheduler.Match) []Row {
	index := make(map[string]*Row, len(players))
	order := make([]string, 0, len(players))
	row := func(id string) *Row {
		if r, ok := index[id]; ok {
			return r
		}
		r := &Row{PlayerID: id, Name: id, HeadToHead: map[string]Record{}, Unlisted: true}
		index[id] = r
		order = append(order, id)
		return r
	}
	for _, p := range players {
		if _, ok := index[p.ID]; ok {
			continue
		}
		index[p.ID] = &Row{PlayerID: p.ID, Name: p.DisplayName(), HeadToHead: map[string]Record{}}
		order = append(order, p.ID)
	}

	for _, m := range matches {
		if !m.Scored() {
			continue
		}
		a, b := *m.ScoreA, *m.ScoreB
		credit(row, m.TeamA, m.TeamB, a, b)
		credit(row, m.TeamB, m.TeamA, b, a)
	}

	out := make([]Row, 0, len(order))
	for _, id := range order {
		out = append(out, *index[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return ahead(out[i], out[j]) })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func credit(row func(string) *Row, team, opponents []string, scored, conceded int) {
	for _, id := range team {
		r := row(id)
		r.GamesPlayed++
		r.PointsFor += scored
		r.PointsAgainst += conceded
		r.Diff += scored - conceded
		switch {
		case scored > conceded:
			r.Wins++
		case scored < conceded:
			r.Losses++
		default:
			continue
		}
		for _, opp := range opponents {
			h := r.HeadToHead[opp]
			if scored > conceded {
				h.Wins++
			} else {
				h.Losses++
			}
			r.HeadToHead[opp] = h
		}
	}
}

// ahead orders by wins, then point differential, then the pair's direct
// record when they have met.
func ahead(a, b Row) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.Diff != b.Diff {
		return a.Diff > b.Diff
	}
	h := a.HeadToHead[b.PlayerID]
	if h.Wins+h.Losses > 0 && h.Wins != h.Losses {
		return h.Wins > h.Losses
	}
	return false
}
