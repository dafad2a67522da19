// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Schedule review: per-player tallies feeding the rule set.

package advisor

import (
	"sort"

	"ladder-mcp/internal/scheduler"
)

// Report is the advisor output schema.
type Report struct {
	Summary        Summary         `json:"summary"`
	PlayerRankings []PlayerRanking `json:"player_rankings"`
	Findings       []Finding       `json:"findings"`
}

type Summary struct {
	Health       string `json:"health"`
	Findings     int    `json:"findings"`
	HighSeverity int    `json:"high_severity"`
	Matches      int    `json:"matches"`
	Rounds       int    `json:"rounds"`
}

// PlayerRanking lists the players most affected by findings.
type PlayerRanking struct {
	PlayerID    string   `json:"player_id"`
	ImpactScore int      `json:"impact_score"`
	Reasons     []string `json:"reasons"`
}

// Tally is what one player got out of a schedule.
type Tally struct {
	Player    scheduler.Player
	Target    int
	Games     int
	SitOuts   int
	Partners  map[string]int
	Opponents map[string]int
}

// Context carries the schedule and derived tallies to the rules.
type Context struct {
	Schedule    scheduler.Schedule
	Players     []scheduler.Player
	Tallies     map[string]*Tally
	MaxFindings int
	// SkillGap is the team skill difference above which a match is flagged.
	SkillGap    float64
}

// NewContext tallies games, sit-outs, partners and opponents per player.
func NewContext(sched scheduler.Schedule, players []scheduler.Player) *Context {
	ctx := &Context{Schedule: sched, Players: players, Tallies: make(map[string]*Tally, len(players)), MaxFindings: 25, SkillGap: 2}
	for _, p := range players {
		target := p.TargetGames
		if target <= 0 {
			target = sched.GamesPerPlayer
		}
		ctx.Tallies[p.ID] = &Tally{Player: p, Target: target, Partners: map[string]int{}, Opponents: map[string]int{}}
	}
	for _, round := range sched.Rounds() {
		seen := map[string]bool{}
		for _, m := range round {
			for _, id := range m.PlayerIDs() {
				seen[id] = true
			}
			ctx.credit(m.TeamA, m.TeamB)
			ctx.credit(m.TeamB, m.TeamA)
		}
		for id, t := range ctx.Tallies {
			if !seen[id] {
				t.SitOuts++
			}
		}
	}
	return ctx
}

func (c *Context) credit(team, opponents []string) {
	for _, id := range team {
		t, ok := c.Tallies[id]
		if !ok {
			continue
		}
		t.Games++
		for _, mate := range team {
			if mate != id {
				t.Partners[mate]++
			}
		}
		for _, o := range opponents {
			t.Opponents[o]++
		}
	}
}

// Review runs every rule over a schedule and renders the report.
func Review(sched scheduler.Schedule, players []scheduler.Player) Report {
	ctx := NewContext(sched, players)
	return Render(ctx, EvaluateRules(ctx))
}

// sortedIDs keeps rule output independent of map iteration order.
func (c *Context) sortedIDs() []string {
	ids := make([]string, 0, len(c.Tallies))
	for id := range c.Tallies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
