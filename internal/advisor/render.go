// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Report rendering and sorting.

package advisor

import "sort"

// Render builds the Report with ordering and scoring.
func Render(ctx *Context, findings []Finding) Report {
	playerScores := map[string]int{}
	playerReasons := map[string][]string{}
	for i := range findings {
		f := &findings[i]
		f.Score = ScoreFinding(*f)
		if f.Scope == "player" {
			for _, id := range f.Players {
				playerScores[id] += f.Score
				playerReasons[id] = append(playerReasons[id], f.Title)
			}
		}
	}

	// severity desc, score desc, target asc, id asc
	sort.SliceStable(findings, func(i, j int) bool {
		fi, fj := findings[i], findings[j]
		if fi.Severity != fj.Severity {
			return severityRank(fi.Severity) < severityRank(fj.Severity)
		}
		if fi.Score != fj.Score {
			return fi.Score > fj.Score
		}
		if fi.Target != fj.Target {
			return fi.Target < fj.Target
		}
		return fi.ID < fj.ID
	})

	rankings := []PlayerRanking{}
	for id, score := range playerScores {
		rankings = append(rankings, PlayerRanking{PlayerID: id, ImpactScore: score, Reasons: playerReasons[id]})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].ImpactScore != rankings[j].ImpactScore {
			return rankings[i].ImpactScore > rankings[j].ImpactScore
		}
		return rankings[i].PlayerID < rankings[j].PlayerID
	})

	health := "ok"
	high := 0
	for _, f := range findings {
		if f.Severity == "critical" {
			health = "critical"
			high++
		} else if f.Severity == "warning" {
			if health == "ok" {
				health = "warning"
			}
			high++
		}
	}

	if ctx.MaxFindings > 0 && len(findings) > ctx.MaxFindings {
		findings = findings[:ctx.MaxFindings]
	}
	if findings == nil {
		findings = []Finding{}
	}

	return Report{
		Summary: Summary{
			Health:       health,
			Findings:     len(findings),
			HighSeverity: high,
			Matches:      len(ctx.Schedule.Matches),
			Rounds:       len(ctx.Schedule.Rounds()),
		},
		PlayerRankings: rankings,
		Findings:       findings,
	}
}

func severityRank(sev string) int {
	switch sev {
	case "critical":
		return 0
	case "warning":
		return 1
	default:
		return 2
	}
}

func sortFindingsByTarget(fs []Finding) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Target < fs[j].Target })
}
