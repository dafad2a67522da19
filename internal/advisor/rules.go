// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Rules flagging fairness and balance problems in a generated schedule.

package advisor

import (
	"fmt"
	"math"
	"strings"

	"ladder-mcp/internal/scheduler"
)

// Rule defines advisor rule interface.
type Rule interface {
	ID() string
	Evaluate(ctx *Context) []Finding
}

// EvaluateRules evaluates all rules for the given context.
func EvaluateRules(ctx *Context) []Finding {
	rules := []Rule{
		&RuleEmptySchedule{},
		&RuleShortOfGames{},
		&RuleRepeatPartners{},
		&RuleUnevenSitOuts{},
		&RuleSkillGap{},
	}
	var findings []Finding
	for _, r := range rules {
		findings = append(findings, r.Evaluate(ctx)...)
	}
	return findings
}

// Finding is the core finding structure.
type Finding struct {
	ID             string   `json:"id"`
	Severity       string   `json:"severity"` // info|warning|critical
	Scope          string   `json:"scope"`    // schedule|player|match
	Target         string   `json:"target"`
	Title          string   `json:"title"`
	Problem        string   `json:"problem"`
	Recommendation string   `json:"recommendation,omitempty"`
	Players        []string `json:"players,omitempty"`
	Evidence       Evidence `json:"evidence"`
	Score          int      `json:"-"`
}

func MakeFinding(ruleID, severity, scope, target, title, problem, recommendation string, players []string, evidence Evidence) Finding {
	f := Finding{
		Severity:       severity,
		Scope:          scope,
		Target:         target,
		Title:          title,
		Problem:        problem,
		Recommendation: recommendation,
		Players:        players,
		Evidence:       evidence,
	}
	f.ID = StableID(ruleID, target, evidence)
	return f
}

// RuleEmptySchedule flags a roster that produced no matches at all.
type RuleEmptySchedule struct{}

func (r *RuleEmptySchedule) ID() string { return "rule.empty_schedule" }
func (r *RuleEmptySchedule) Evaluate(ctx *Context) []Finding {
	if len(ctx.Schedule.Matches) > 0 || len(ctx.Players) == 0 {
		return nil
	}
	return []Finding{MakeFinding(r.ID(), "critical", "schedule", "schedule", "No matches scheduled",
		fmt.Sprintf("%d players cannot form a doubles match", len(ctx.Players)),
		"add players until at least four are active", nil, Evidence{"players": len(ctx.Players)})}
}

// RuleShortOfGames reports players who got fewer games than targeted.
type RuleShortOfGames struct{}

func (r *RuleShortOfGames) ID() string { return "rule.short_of_games" }
func (r *RuleShortOfGames) Evaluate(ctx *Context) []Finding {
	if len(ctx.Schedule.Matches) == 0 {
		return nil
	}
	var out []Finding
	for _, id := range ctx.sortedIDs() {
		t := ctx.Tallies[id]
		missing := t.Target - t.Games
		if missing <= 0 {
			continue
		}
		sev := "info"
		if missing > 1 {
			sev = "warning"
		}
		out = append(out, MakeFinding(r.ID(), sev, "player", id, "Player short of games",
			fmt.Sprintf("%s plays %d of %d games", t.Player.DisplayName(), t.Games, t.Target),
			"regenerate with more restarts or adjust games per player", []string{id},
			Evidence{"games": t.Games, "target": t.Target}))
	}
	return out
}

// RuleRepeatPartners reports pairs teamed up more than once.
type RuleRepeatPartners struct{}

func (r *RuleRepeatPartners) ID() string { return "rule.repeat_partners" }
func (r *RuleRepeatPartners) Evaluate(ctx *Context) []Finding {
	var out []Finding
	for _, id := range ctx.sortedIDs() {
		t := ctx.Tallies[id]
		for mate, n := range t.Partners {
			if n < 2 || mate < id {
				continue
			}
			sev := "info"
			if n > 2 {
				sev = "warning"
			}
			target := id + "+" + mate
			out = append(out, MakeFinding(r.ID(), sev, "player", target, "Repeat partners",
				fmt.Sprintf("%s and %s partner %d times", id, mate, n),
				"", []string{id, mate}, Evidence{"times": n}))
		}
	}
	sortFindingsByTarget(out)
	return out
}

// RuleUnevenSitOuts flags players resting noticeably more than the rest.
type RuleUnevenSitOuts struct{}

func (r *RuleUnevenSitOuts) ID() string { return "rule.uneven_sit_outs" }
func (r *RuleUnevenSitOuts) Evaluate(ctx *Context) []Finding {
	if len(ctx.Tallies) == 0 || len(ctx.Schedule.Matches) == 0 {
		return nil
	}
	least := math.MaxInt
	for _, t := range ctx.Tallies {
		least = min(least, t.SitOuts)
	}
	var out []Finding
	for _, id := range ctx.sortedIDs() {
		t := ctx.Tallies[id]
		if t.SitOuts-least < 2 {
			continue
		}
		out = append(out, MakeFinding(r.ID(), "warning", "player", id, "Uneven sit-outs",
			fmt.Sprintf("%s sits out %d rounds, others as few as %d", t.Player.DisplayName(), t.SitOuts, least),
			"check the player's target games", []string{id},
			Evidence{"sit_outs": t.SitOuts, "min_sit_outs": least}))
	}
	return out
}

// RuleSkillGap flags competitive matches whose team skills differ widely.
type RuleSkillGap struct{}

func (r *RuleSkillGap) ID() string { return "rule.skill_gap" }
func (r *RuleSkillGap) Evaluate(ctx *Context) []Finding {
	if ctx.Schedule.Mode != scheduler.ModeCompetitive || ctx.SkillGap <= 0 {
		return nil
	}
	var out []Finding
	for i, m := range ctx.Schedule.Matches {
		a, b := ctx.teamSkill(m.TeamA), ctx.teamSkill(m.TeamB)
		gap := math.Abs(a - b)
		if gap <= ctx.SkillGap {
			continue
		}
		target := fmt.Sprintf("match %d", i+1)
		out = append(out, MakeFinding(r.ID(), "info", "match", target, "Lopsided match",
			fmt.Sprintf("%s vs %s: team skill %.1f vs %.1f", strings.Join(m.TeamA, "/"), strings.Join(m.TeamB, "/"), a, b),
			"", m.PlayerIDs(), Evidence{"gap": math.Round(gap*10) / 10}))
	}
	return out
}

func (c *Context) teamSkill(team []string) float64 {
	var sum float64
	for _, id := range team {
		if t, ok := c.Tallies[id]; ok {
			sum += t.Player.Skill()
		}
	}
	return sum
}
