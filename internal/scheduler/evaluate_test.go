// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for schedule evaluation.

package scheduler

import "testing"

func m(a1, a2, b1, b2 string) Match {
	return Match{TeamA: []string{a1, a2}, TeamB: []string{b1, b2}}
}

func TestEvaluateDeterministic(t *testing.T) {
	players := numbered(8)
	matches := []Match{
		m("p01", "p02", "p03", "p04"),
		m("p05", "p06", "p07", "p08"),
		m("p01", "p05", "p02", "p06"),
		m("p03", "p07", "p04", "p08"),
	}
	w := WeightsFor(ModeCompetitive)
	first := Evaluate(matches, players, w)
	for i := 0; i < 5; i++ {
		if got := Evaluate(matches, players, w); got != first {
			t.Fatalf("evaluation %d = %f, first was %f", i, got, first)
		}
	}
}

func TestEvaluateCountsGapsNotRepeatOpponents(t *testing.T) {
	players := roster("a", "b", "c", "d")
	// a-d and b-c face each other twice; a-d and b-c never partner.
	matches := []Match{m("a", "b", "c", "d"), m("a", "c", "b", "d")}
	w := WeightsFor(ModeSocial)

	b := Explain(matches, players, w)
	if b.MissedPartners != 4 {
		t.Fatalf("expected 4 missed ordered partner pairs, got %d", b.MissedPartners)
	}
	if b.MissedOpponents != 0 || b.RepeatPartners != 0 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
	if want := 4 * w.MissedPartner; b.Total != want {
		t.Fatalf("penalty = %f, want %f (repeat opponents must cost nothing globally)", b.Total, want)
	}
	if Evaluate(matches, players, w) != b.Total {
		t.Fatalf("Evaluate and Explain disagree")
	}
}

func TestEvaluatePenalizesRepeatPartners(t *testing.T) {
	players := roster("a", "b", "c", "d")
	w := WeightsFor(ModeCompetitive)
	matches := []Match{m("a", "b", "c", "d"), m("a", "b", "c", "d"), m("a", "b", "c", "d")}
	b := Explain(matches, players, w)
	// a-b and c-d partnered 3 times each: 2 extra per ordered pair, 4 ordered pairs.
	if b.RepeatPartners != 8 {
		t.Fatalf("expected 8 repeat partner units, got %d", b.RepeatPartners)
	}
	// a-c, a-d, b-c, b-d never partnered (8 ordered); a-b, c-d never opposed (4 ordered).
	if b.MissedPartners != 8 || b.MissedOpponents != 4 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestEvaluateAddsSkillCostPerMatch(t *testing.T) {
	players := []Player{{ID: "a", SkillRating: 1}, {ID: "b", SkillRating: 2}, {ID: "c", SkillRating: 3}, {ID: "d", SkillRating: 4}}
	w := WeightsFor(ModeSocial)
	one := Explain([]Match{m("a", "b", "c", "d")}, players, w)
	two := Explain([]Match{m("a", "b", "c", "d"), m("a", "c", "b", "d")}, players, w)
	if one.SkillCost != 100 || two.SkillCost != 200 {
		t.Fatalf("skill cost = %f / %f, want 100 / 200", one.SkillCost, two.SkillCost)
	}
}

func TestPerfectScheduleScoresOnlySkill(t *testing.T) {
	players := roster("a", "b", "c", "d")
	matches := []Match{m("a", "b", "c", "d"), m("a", "c", "b", "d"), m("a", "d", "b", "c")}
	if got := Evaluate(matches, players, WeightsFor(ModeSocial)); got != 0 {
		t.Fatalf("expected zero penalty for the full round robin, got %f", got)
	}
}
