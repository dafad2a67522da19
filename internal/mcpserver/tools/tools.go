// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Tool registration and shared helpers.

package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/cache"
	"ladder-mcp/internal/config"
	"ladder-mcp/internal/db"
	serr "ladder-mcp/internal/errors"
	"ladder-mcp/internal/logging"
	"ladder-mcp/internal/metrics"
	"ladder-mcp/internal/safety"
	"ladder-mcp/internal/scheduler"
	"ladder-mcp/internal/version"
)

// SessionStore is the persistence the session tools need; *db.Store satisfies it.
type SessionStore interface {
	DetectSchema(ctx context.Context) (db.SchemaStatus, error)
	LoadSession(ctx context.Context, id string) (db.Session, error)
	LoadRoster(ctx context.Context, sessionID string) ([]scheduler.Player, error)
	LoadMatches(ctx context.Context, sessionID string) ([]scheduler.Match, error)
	CountMatches(ctx context.Context, sessionID string) (db.MatchCounts, error)
	ReplaceSchedule(ctx context.Context, sessionID string, sched scheduler.Schedule) error
}

type Dependencies struct {
	Store      SessionStore // nil without database_dsn
	Logger     *zap.Logger
	Guardrails *safety.Guardrails
	Limiter    *safety.Limiter
	Metrics    *metrics.Metrics
	Standings  *cache.Cache[StandingsOutput]
	Config     config.Config
}

func Register(server *mcp.Server, deps Dependencies) {
	mcp.AddTool(server, &mcp.Tool{Name: "ping", Description: "ping the server"}, func(ctx context.Context, req *mcp.CallToolRequest, input PingInput) (*mcp.CallToolResult, PingOutput, error) {
		return Ping(ctx, deps, input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "server_info", Description: "returns server metadata and scheduler settings"}, func(ctx context.Context, req *mcp.CallToolRequest, input ServerInfoInput) (*mcp.CallToolResult, ServerInfoOutput, error) {
		return ServerInfo(ctx, deps)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "generate_schedule", Description: "generate a doubles schedule for a roster (SOCIAL or COMPETITIVE)"}, func(ctx context.Context, req *mcp.CallToolRequest, input GenerateScheduleInput) (*mcp.CallToolResult, GenerateScheduleOutput, error) {
		return GenerateSchedule(ctx, deps.forTool("generate_schedule"), input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "validate_schedule", Description: "check that no player is booked twice within a round"}, func(ctx context.Context, req *mcp.CallToolRequest, input ValidateScheduleInput) (*mcp.CallToolResult, ValidateScheduleOutput, error) {
		return ValidateSchedule(ctx, deps.forTool("validate_schedule"), input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "compute_standings", Description: "compute standings from scored matches"}, func(ctx context.Context, req *mcp.CallToolRequest, input ComputeStandingsInput) (*mcp.CallToolResult, StandingsOutput, error) {
		return ComputeStandings(ctx, deps.forTool("compute_standings"), input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "request_approval_token", Description: "issue a short-lived approval token (admin mode)"}, func(ctx context.Context, req *mcp.CallToolRequest, input RequestApprovalTokenInput) (*mcp.CallToolResult, RequestApprovalTokenOutput, error) {
		return requestApprovalTokenTool(ctx, deps.forTool("request_approval_token"), input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "session_schedule", Description: "generate, validate and save the schedule of a stored session"}, func(ctx context.Context, req *mcp.CallToolRequest, input SessionScheduleInput) (*mcp.CallToolResult, SessionScheduleOutput, error) {
		return SessionSchedule(ctx, deps.forTool("session_schedule"), input)
	})

	mcp.AddTool(server, &mcp.Tool{Name: "session_standings", Description: "standings for a stored session"}, func(ctx context.Context, req *mcp.CallToolRequest, input SessionStandingsInput) (*mcp.CallToolResult, StandingsOutput, error) {
		return SessionStandings(ctx, deps.forTool("session_standings"), input)
	})
}

func (d Dependencies) forTool(name string) Dependencies {
	d.Logger = logging.WithTool(d.Logger, name)
	return d
}

// Ping tool

type PingInput struct {
	Message string `json:"message,omitempty" jsonschema:"optional message to echo"`
}

type PingOutput struct {
	Pong string `json:"pong"`
}

func Ping(ctx context.Context, deps Dependencies, input PingInput) (*mcp.CallToolResult, PingOutput, error) {
	msg := input.Message
	if msg == "" {
		msg = "pong"
	}
	return nil, PingOutput{Pong: msg}, nil
}

// ServerInfo tool

type ServerInfoInput struct{}

type ServerInfoOutput struct {
	Build             version.BuildInfo            `json:"build"`
	ReadOnly          bool                         `json:"read_only"`
	Restarts          int                          `json:"restarts"`
	Workers           int                          `json:"workers"`
	MaxRosterSize     int                          `json:"max_roster_size"`
	MaxGamesPerPlayer int                          `json:"max_games_per_player"`
	StoreEnabled      bool                         `json:"store_enabled"`
	Schema            *db.SchemaStatus             `json:"schema,omitempty"`
	Weights           map[string]scheduler.Weights `json:"weights"`
}

func ServerInfo(ctx context.Context, deps Dependencies) (*mcp.CallToolResult, ServerInfoOutput, error) {
	out := ServerInfoOutput{
		Build:             version.Info(),
		ReadOnly:          deps.Config.Mode != config.ModeAdmin,
		Restarts:          deps.Config.Restarts,
		Workers:           deps.Config.Workers,
		MaxRosterSize:     deps.Config.MaxRosterSize,
		MaxGamesPerPlayer: deps.Config.MaxGamesPerPlayer,
		StoreEnabled:      deps.Store != nil,
		Weights: map[string]scheduler.Weights{
			string(scheduler.ModeSocial):      scheduler.WeightsFor(scheduler.ModeSocial),
			string(scheduler.ModeCompetitive): scheduler.WeightsFor(scheduler.ModeCompetitive),
		},
	}
	if deps.Store != nil {
		st, err := deps.Store.DetectSchema(ctx)
		if err != nil {
			deps.Logger.Warn("server_info schema detection failed", zap.Error(err))
		} else {
			out.Schema = &st
		}
	}
	return nil, out, nil
}

// generate runs the optimizer under the admission limiter and records metrics.
// namespace scopes the match ids; session tools pass the session id.
func generate(ctx context.Context, deps Dependencies, namespace string, players []scheduler.Player, games int, mode scheduler.Mode, restarts int, seed uint64) (scheduler.Schedule, error) {
	if err := deps.Guardrails.CheckScheduleSize(len(players), games); err != nil {
		return scheduler.Schedule{}, err
	}
	release, err := deps.Limiter.Acquire(ctx)
	if err != nil {
		return scheduler.Schedule{}, serr.New(serr.CodeTimeout, "scheduler busy", "retry later", nil)
	}
	defer release()

	start := time.Now()
	sched, err := scheduler.Generate(ctx, players, games, mode, scheduler.Options{
		Restarts:  normalizeRestarts(deps.Config, restarts),
		Workers:   deps.Config.Workers,
		Seed:      seed,
		Namespace: namespace,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidRoster) || errors.Is(err, scheduler.ErrInvalidMode) {
			return scheduler.Schedule{}, serr.NewInvalidInput(err.Error(), "player ids must be unique and non-empty", nil)
		}
		if errors.Is(err, scheduler.ErrInvalidGames) {
			return scheduler.Schedule{}, serr.NewInvalidInput(err.Error(), fmt.Sprintf("games_per_player must be at most %d", scheduler.MaxGamesPerPlayer), nil)
		}
		return scheduler.Schedule{}, err
	}
	elapsed := time.Since(start)
	deps.Metrics.ObserveGeneration(string(mode), elapsed, sched.Underfilled())
	deps.Logger.Info("schedule generated",
		zap.String("mode", string(mode)),
		zap.Int("players", len(players)),
		zap.Int("games_per_player", games),
		zap.Int("matches", len(sched.Matches)),
		zap.Int("target_matches", sched.TargetMatches),
		zap.Float64("penalty", sched.Penalty),
		zap.Uint64("seed", sched.Seed),
		zap.Duration("elapsed", elapsed))
	return sched, nil
}

// accept gates a schedule on the validator before anything may use it.
func accept(deps Dependencies, sched scheduler.Schedule, players []scheduler.Player) (scheduler.ValidationResult, error) {
	res := scheduler.Validate(sched.Matches, players)
	if err := res.Err(); err != nil {
		deps.Metrics.ValidationFailed()
		deps.Logger.Error("generated schedule failed validation", zap.Error(err), zap.Uint64("seed", sched.Seed))
		return res, serr.NewValidationFailed(err.Error(), map[string]any{"violations": len(res.Violations), "seed": sched.Seed})
	}
	return res, nil
}

func resolveMode(cfg config.Config, raw string) (scheduler.Mode, error) {
	if raw == "" {
		raw = cfg.DefaultScheduleMode
	}
	mode, err := scheduler.ParseMode(raw)
	if err != nil {
		return "", serr.NewInvalidInput(err.Error(), "use SOCIAL or COMPETITIVE", map[string]any{"mode": raw})
	}
	return mode, nil
}

func normalizeRestarts(cfg config.Config, restarts int) int {
	if restarts <= 0 || restarts > cfg.Restarts {
		return cfg.Restarts
	}
	return restarts
}

// Helper error creation
func callError(code serr.ErrorCode, msg, hint string) *mcp.CallToolResult {
	errObj := map[string]any{"code": code, "message": msg}
	if hint != "" {
		errObj["hint"] = hint
	}
	return &mcp.CallToolResult{
		IsError:           true,
		StructuredContent: errObj,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %s", code, msg)},
		},
	}
}

// toolError maps any error onto a tool error result.
func toolError(err error) *mcp.CallToolResult {
	te := serr.ToToolError(err)
	return callError(te.Code, te.Message, te.Hint)
}
