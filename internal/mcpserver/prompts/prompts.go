package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"ladder-mcp/internal/mcpserver/tools"
)

// RegisterAll registers all prompts with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddPrompt(&mcp.Prompt{Name: "/ladder.plan_session", Title: "Plan a session", Description: "Dry-run a stored session's schedule and walk through saving it",
		Arguments: []*mcp.PromptArgument{{Name: "session_id", Description: "stored session id", Required: true}}}, promptPlanSession(deps))
	server.AddPrompt(&mcp.Prompt{Name: "/ladder.standings_review", Title: "Standings review", Description: "Summarise a session's standings",
		Arguments: []*mcp.PromptArgument{{Name: "session_id", Description: "stored session id", Required: true}}}, promptStandingsReview(deps))
}

func sessionArg(req *mcp.GetPromptRequest) string {
	if req != nil && req.Params != nil && req.Params.Arguments != nil {
		return strings.TrimSpace(req.Params.Arguments["session_id"])
	}
	return ""
}

func missingSession(name string) *mcp.GetPromptResult {
	msg := fmt.Sprintf("### Missing argument\n- Provide `session_id`.\n- Example: get_prompt %s arguments:{\"session_id\":\"<id>\"}\n", name)
	return &mcp.GetPromptResult{Description: "Provide session_id argument", Messages: []*mcp.PromptMessage{
		{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: msg}},
	}}
}

func promptPlanSession(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		id := sessionArg(req)
		if id == "" {
			return missingSession("/ladder.plan_session"), nil
		}
		var b strings.Builder
		b.WriteString("### Session plan\n")
		b.WriteString(fmt.Sprintf("**Session**: %s\n\n", id))

		res, out, err := tools.SessionSchedule(ctx, deps, tools.SessionScheduleInput{SessionID: id, DryRun: true})
		switch {
		case err != nil:
			b.WriteString(fmt.Sprintf("Unable to plan session: %v\n", err))
		case res != nil && res.IsError:
			b.WriteString("Dry run failed:\n")
			for _, c := range res.Content {
				if t, ok := c.(*mcp.TextContent); ok {
					b.WriteString("- " + t.Text + "\n")
				}
			}
		default:
			s := out.Result.Schedule
			b.WriteString(fmt.Sprintf("- Mode: %s, %d games per player\n", s.Mode, s.GamesPerPlayer))
			b.WriteString(fmt.Sprintf("- %d matches in %d rounds (target %d)\n", len(s.Matches), len(out.Result.Rounds), s.TargetMatches))
			b.WriteString(fmt.Sprintf("- Penalty %.1f: %d missed partners, %d repeat partners, %d missed opponents\n",
				s.Penalty, out.Result.Breakdown.MissedPartners, out.Result.Breakdown.RepeatPartners, out.Result.Breakdown.MissedOpponents))
			for _, w := range out.Result.Warnings {
				b.WriteString("- Warning: " + w + "\n")
			}
			if rev := out.Result.Review; len(rev.Findings) > 0 {
				b.WriteString(fmt.Sprintf("\nReview (%s):\n", rev.Summary.Health))
				for _, f := range rev.Findings {
					b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", f.Severity, f.Title, f.Problem))
				}
			}
			b.WriteString("\n")
			js, _ := json.MarshalIndent(out.Result.Rounds, "", "  ")
			b.WriteString(fmt.Sprintf("```json\n%s\n```\n\n", string(js)))
			b.WriteString("Next steps:\n")
			b.WriteString(fmt.Sprintf("1) Save with `session_schedule` `{\"session_id\":\"%s\",\"seed\":%d}` (admin mode)\n", id, s.Seed))
			b.WriteString("2) If a schedule already exists, get a token from `request_approval_token` with action `replace_schedule:" + id + "`\n")
		}
		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("system"), Content: &mcp.TextContent{Text: "You are a concise club organiser's assistant. Present rounds clearly and flag players short of games."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: b.String()}},
		}
		return &mcp.GetPromptResult{Description: "Session plan", Messages: messages}, nil
	}
}

func promptStandingsReview(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		id := sessionArg(req)
		if id == "" {
			return missingSession("/ladder.standings_review"), nil
		}
		var b strings.Builder
		b.WriteString("### Standings\n")
		res, out, err := tools.SessionStandings(ctx, deps, tools.SessionStandingsInput{SessionID: id})
		switch {
		case err != nil:
			b.WriteString(fmt.Sprintf("Unable to load standings: %v\n", err))
		case res != nil && res.IsError:
			b.WriteString("Standings unavailable.\n")
		default:
			b.WriteString(fmt.Sprintf("%d scored matches\n\n", out.Scored))
			b.WriteString("| # | Player | W | L | Diff |\n|---|---|---|---|---|\n")
			for _, r := range out.Rows {
				b.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %+d |\n", r.Rank, r.Name, r.Wins, r.Losses, r.Diff))
			}
		}
		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("system"), Content: &mcp.TextContent{Text: "You are a concise club organiser's assistant. Summarise the table and note close races."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: b.String()}},
		}
		return &mcp.GetPromptResult{Description: "Standings review", Messages: messages}, nil
	}
}
