// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Unit tests for tool handlers against an in-memory session store.

package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/cache"
	"ladder-mcp/internal/config"
	"ladder-mcp/internal/db"
	serr "ladder-mcp/internal/errors"
	"ladder-mcp/internal/metrics"
	"ladder-mcp/internal/safety"
	"ladder-mcp/internal/scheduler"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]db.Session
	rosters  map[string][]scheduler.Player
	matches  map[string][]scheduler.Match
	replaced int
	loads    int
}

func newMemStore() *memStore {
	return &memStore{
		sessions: map[string]db.Session{},
		rosters:  map[string][]scheduler.Player{},
		matches:  map[string][]scheduler.Match{},
	}
}

func (s *memStore) DetectSchema(ctx context.Context) (db.SchemaStatus, error) {
	return db.SchemaStatus{ServerVersion: "16.0", Tables: map[string]bool{"ladder_matches": true}}, nil
}

func (s *memStore) LoadSession(ctx context.Context, id string) (db.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	sess, ok := s.sessions[id]
	if !ok {
		return db.Session{}, fmt.Errorf("%w: %s", db.ErrNotFound, id)
	}
	return sess, nil
}

func (s *memStore) LoadRoster(ctx context.Context, id string) ([]scheduler.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rosters[id], nil
}

func (s *memStore) LoadMatches(ctx context.Context, id string) ([]scheduler.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[id], nil
}

func (s *memStore) CountMatches(ctx context.Context, id string) (db.MatchCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := db.MatchCounts{Total: len(s.matches[id])}
	for _, m := range s.matches[id] {
		if m.Scored() {
			c.Scored++
		}
	}
	return c, nil
}

func (s *memStore) ReplaceSchedule(ctx context.Context, id string, sched scheduler.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[id] = append([]scheduler.Match(nil), sched.Matches...)
	s.replaced++
	return nil
}

func numbered(n int) []scheduler.Player {
	out := make([]scheduler.Player, n)
	for i := range out {
		out[i] = scheduler.Player{ID: fmt.Sprintf("p%02d", i+1), SkillRating: float64(i)}
	}
	return out
}

func testDeps(t *testing.T, mode config.Mode, store SessionStore) Dependencies {
	t.Helper()
	cfg := config.Config{
		Mode:                  mode,
		ApprovalSecret:        "s3cret",
		Restarts:              50,
		Workers:               2,
		MaxRosterSize:         32,
		MaxGamesPerPlayer:     8,
		DefaultGamesPerPlayer: 3,
		DefaultScheduleMode:   string(scheduler.ModeSocial),
		EnableCaching:         true,
		CacheTTLSeconds:       60,
	}
	return Dependencies{
		Store:      store,
		Logger:     zap.NewNop(),
		Guardrails: safety.NewGuardrails(cfg),
		Limiter:    safety.NewLimiter(1),
		Metrics:    metrics.New(),
		Standings:  cache.New[StandingsOutput](),
		Config:     cfg,
	}
}

func errorCode(t *testing.T, res *mcp.CallToolResult) serr.ErrorCode {
	t.Helper()
	if res == nil || !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
	obj, ok := res.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("unexpected structured content %T", res.StructuredContent)
	}
	return obj["code"].(serr.ErrorCode)
}

func TestGenerateScheduleDefaults(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	res, out, err := GenerateSchedule(context.Background(), deps, GenerateScheduleInput{Players: numbered(8), Seed: 7})
	if err != nil || res != nil {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	if out.Schedule.Mode != scheduler.ModeSocial || out.Schedule.GamesPerPlayer != 3 {
		t.Fatalf("defaults not applied: %+v", out.Schedule)
	}
	if out.Schedule.Restarts != 50 {
		t.Fatalf("expected configured restarts, got %d", out.Schedule.Restarts)
	}
	if !out.Validation.Valid || len(out.Rounds) == 0 {
		t.Fatalf("expected a valid schedule: %+v", out.Validation)
	}
	if out.Breakdown.Total != out.Schedule.Penalty {
		t.Fatalf("breakdown total %v != penalty %v", out.Breakdown.Total, out.Schedule.Penalty)
	}
}

func TestGenerateScheduleCapsRestarts(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	_, out, _ := GenerateSchedule(context.Background(), deps, GenerateScheduleInput{Players: numbered(5), Restarts: 100000, Seed: 1})
	if out.Schedule.Restarts != deps.Config.Restarts {
		t.Fatalf("restarts not capped: %d", out.Schedule.Restarts)
	}
}

func TestGenerateScheduleRejectsBadInput(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	cases := []GenerateScheduleInput{
		{Players: numbered(8), Mode: "ladder"},
		{Players: numbered(40)},
		{Players: numbered(8), GamesPerPlayer: 9},
		{Players: []scheduler.Player{{ID: "a"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}},
	}
	for i, in := range cases {
		res, _, _ := GenerateSchedule(context.Background(), deps, in)
		if code := errorCode(t, res); code != serr.CodeInvalidInput {
			t.Fatalf("case %d: expected INVALID_INPUT, got %s", i, code)
		}
	}
}

func TestGenerateScheduleTinyRosterWarns(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	res, out, _ := GenerateSchedule(context.Background(), deps, GenerateScheduleInput{Players: numbered(3)})
	if res != nil {
		t.Fatalf("unexpected error %+v", res)
	}
	if len(out.Schedule.Matches) != 0 || len(out.Warnings) == 0 {
		t.Fatalf("expected empty schedule with a warning: %+v", out)
	}
	if out.Review.Summary.Health != "critical" {
		t.Fatalf("expected critical review, got %+v", out.Review.Summary)
	}
}

func TestValidateScheduleReportsDoubleBooking(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	players := numbered(8)
	matches := []scheduler.Match{
		{TeamA: []string{"p01", "p02"}, TeamB: []string{"p03", "p04"}},
		{TeamA: []string{"p01", "p05"}, TeamB: []string{"p06", "p07"}},
	}
	res, out, _ := ValidateSchedule(context.Background(), deps, ValidateScheduleInput{Players: players, Matches: matches})
	if res != nil {
		t.Fatalf("invalid schedules are data, not errors")
	}
	if out.Result.Valid || len(out.Messages) != 1 || !strings.Contains(out.Messages[0], "p01") {
		t.Fatalf("unexpected validation output %+v", out)
	}
}

func TestComputeStandingsCountsScored(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	a, b := 11, 7
	matches := []scheduler.Match{
		{TeamA: []string{"p01", "p02"}, TeamB: []string{"p03", "p04"}, ScoreA: &a, ScoreB: &b},
		{TeamA: []string{"p01", "p03"}, TeamB: []string{"p02", "p04"}},
	}
	_, out, _ := ComputeStandings(context.Background(), deps, ComputeStandingsInput{Players: numbered(4), Matches: matches})
	if out.Scored != 1 || out.Rows[0].Wins != 1 {
		t.Fatalf("unexpected standings %+v", out)
	}
}

func TestSessionToolsNeedStore(t *testing.T) {
	deps := testDeps(t, config.ModeAdmin, nil)
	res, _, _ := SessionSchedule(context.Background(), deps, SessionScheduleInput{SessionID: "s1"})
	if code := errorCode(t, res); code != serr.CodeStoreUnavailable {
		t.Fatalf("expected STORE_UNAVAILABLE, got %s", code)
	}
	res, _, _ = SessionStandings(context.Background(), deps, SessionStandingsInput{SessionID: "s1"})
	if code := errorCode(t, res); code != serr.CodeStoreUnavailable {
		t.Fatalf("expected STORE_UNAVAILABLE, got %s", code)
	}
}

func seeded(games int) *memStore {
	st := newMemStore()
	st.sessions["s1"] = db.Session{ID: "s1", Name: "Tuesday", GamesPerPlayer: games, Mode: scheduler.ModeCompetitive}
	st.rosters["s1"] = numbered(8)
	return st
}

func TestSessionScheduleUnknownSession(t *testing.T) {
	deps := testDeps(t, config.ModeAdmin, newMemStore())
	res, _, _ := SessionSchedule(context.Background(), deps, SessionScheduleInput{SessionID: "nope"})
	if code := errorCode(t, res); code != serr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestSessionScheduleDryRunInReadOnly(t *testing.T) {
	st := seeded(2)
	deps := testDeps(t, config.ModeReadOnly, st)
	res, out, _ := SessionSchedule(context.Background(), deps, SessionScheduleInput{SessionID: "s1", DryRun: true, Seed: 3})
	if res != nil {
		t.Fatalf("dry run failed: %+v", res)
	}
	if out.Saved || st.replaced != 0 {
		t.Fatalf("dry run must not save")
	}
	if out.Result.Schedule.Mode != scheduler.ModeCompetitive || out.Result.Schedule.GamesPerPlayer != 2 {
		t.Fatalf("session settings not used: %+v", out.Result.Schedule)
	}

	res, _, _ = SessionSchedule(context.Background(), deps, SessionScheduleInput{SessionID: "s1"})
	if code := errorCode(t, res); code != serr.CodePermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %s", code)
	}
}

func TestSessionScheduleReplaceNeedsApproval(t *testing.T) {
	st := seeded(2)
	deps := testDeps(t, config.ModeAdmin, st)
	ctx := context.Background()

	res, first, _ := SessionSchedule(ctx, deps, SessionScheduleInput{SessionID: "s1", Seed: 1})
	if res != nil || !first.Saved || first.Replaced != 0 {
		t.Fatalf("first save failed: %+v %+v", res, first)
	}

	res, _, _ = SessionSchedule(ctx, deps, SessionScheduleInput{SessionID: "s1", Seed: 2})
	if code := errorCode(t, res); code != serr.CodeApprovalRequired {
		t.Fatalf("expected APPROVAL_REQUIRED, got %s", code)
	}

	_, tok, _ := requestApprovalTokenTool(ctx, deps, RequestApprovalTokenInput{Action: safety.ReplaceScheduleAction("s1")})
	res, second, _ := SessionSchedule(ctx, deps, SessionScheduleInput{SessionID: "s1", Seed: 2, ApprovalToken: tok.Token})
	if res != nil || !second.Saved || second.Replaced != len(first.Result.Schedule.Matches) {
		t.Fatalf("approved replace failed: %+v %+v", res, second)
	}
	if diff := cmp.Diff(second.Result.Schedule.Matches, st.matches["s1"]); diff != "" {
		t.Fatalf("stored matches differ (-want +got):\n%s", diff)
	}
}

func TestSessionScheduleRefusesScoredSession(t *testing.T) {
	st := seeded(2)
	a, b := 11, 4
	st.matches["s1"] = []scheduler.Match{{ID: "m1", TeamA: []string{"p01", "p02"}, TeamB: []string{"p03", "p04"}, ScoreA: &a, ScoreB: &b}}
	deps := testDeps(t, config.ModeAdmin, st)
	res, _, _ := SessionSchedule(context.Background(), deps, SessionScheduleInput{SessionID: "s1"})
	if code := errorCode(t, res); code != serr.CodeConflict {
		t.Fatalf("expected CONFLICT, got %s", code)
	}
}

func TestSessionStandingsCaches(t *testing.T) {
	st := seeded(2)
	a, b := 11, 4
	st.matches["s1"] = []scheduler.Match{{ID: "m1", TeamA: []string{"p01", "p02"}, TeamB: []string{"p03", "p04"}, ScoreA: &a, ScoreB: &b}}
	deps := testDeps(t, config.ModeReadOnly, st)
	ctx := context.Background()

	_, first, _ := SessionStandings(ctx, deps, SessionStandingsInput{SessionID: "s1"})
	_, second, _ := SessionStandings(ctx, deps, SessionStandingsInput{SessionID: "s1"})
	if first.Cached || !second.Cached {
		t.Fatalf("expected second call to hit the cache")
	}
	if st.loads != 1 {
		t.Fatalf("expected one store load, got %d", st.loads)
	}
	if first.Scored != 1 || second.Scored != 1 || len(second.Rows) != 8 {
		t.Fatalf("unexpected standings %+v", second)
	}
	_, third, _ := SessionStandings(ctx, deps, SessionStandingsInput{SessionID: "s1", Refresh: true})
	if third.Cached || st.loads != 2 {
		t.Fatalf("refresh should bypass the cache")
	}
}

func TestRequestApprovalTokenReadOnly(t *testing.T) {
	deps := testDeps(t, config.ModeReadOnly, nil)
	res, _, _ := requestApprovalTokenTool(context.Background(), deps, RequestApprovalTokenInput{Action: "x"})
	if code := errorCode(t, res); code != serr.CodePermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %s", code)
	}
}

func TestServerInfoReportsStore(t *testing.T) {
	deps := testDeps(t, config.ModeAdmin, newMemStore())
	_, out, _ := ServerInfo(context.Background(), deps)
	if !out.StoreEnabled || out.Schema == nil || out.ReadOnly {
		t.Fatalf("unexpected server info %+v", out)
	}
	if out.Weights[string(scheduler.ModeCompetitive)].RepeatPartner != 10000 {
		t.Fatalf("unexpected weights %+v", out.Weights)
	}
}
