package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/cache"
	"ladder-mcp/internal/config"
	"ladder-mcp/internal/db"
	"ladder-mcp/internal/mcpserver/tools"
	"ladder-mcp/internal/metrics"
	"ladder-mcp/internal/safety"
	"ladder-mcp/internal/scheduler"
)

func main() {
	ctx := context.Background()
	dsn := os.Getenv("LADDER_MCP_DATABASE_DSN")
	if dsn == "" {
		dsn = "postgres://localhost:5432/ladder?sslmode=disable"
	}

	cfg := config.Config{
		DatabaseDSN:              dsn,
		ConnectTimeoutSeconds:    5,
		StatementTimeoutMs:       30000,
		AppName:                  "ladder-mcp-integration",
		Mode:                     config.ModeAdmin,
		ApprovalSecret:           "integration",
		Restarts:                 500,
		MaxConcurrentGenerations: 1,
		MaxRosterSize:            64,
		MaxGamesPerPlayer:        16,
		DefaultGamesPerPlayer:    4,
		DefaultScheduleMode:      string(scheduler.ModeSocial),
		EnableCaching:            true,
		CacheTTLSeconds:          5,
		LogLevel:                 "info",
	}
	fmt.Println("Using DSN:", safety.RedactDSN(dsn))

	logger, _ := zap.NewDevelopment()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	store := db.NewStore(pool, logger)
	if err := store.Migrate(ctx); err != nil {
		panic(err)
	}

	sessionID := "demo-" + uuid.Must(uuid.NewV4()).String()[:8]
	roster := make([]scheduler.Player, 10)
	for i := range roster {
		roster[i] = scheduler.Player{ID: fmt.Sprintf("demo-p%02d", i+1), FirstName: "Player", LastName: fmt.Sprint(i + 1), SkillRating: float64(3 + i%4)}
	}
	if err := store.CreateSession(ctx, db.Session{ID: sessionID, Name: "Demo night", GamesPerPlayer: 4, Mode: scheduler.ModeCompetitive}, roster); err != nil {
		panic(err)
	}
	fmt.Println("Created session:", sessionID)

	deps := tools.Dependencies{
		Store:      store,
		Logger:     logger,
		Guardrails: safety.NewGuardrails(cfg),
		Limiter:    safety.NewLimiter(cfg.MaxConcurrentGenerations),
		Metrics:    metrics.New(),
		Standings:  cache.New[tools.StandingsOutput](),
		Config:     cfg,
	}

	run("server_info", func() (*mcp.CallToolResult, any, error) { return tools.ServerInfo(ctx, deps) })
	run("session_schedule (dry run)", func() (*mcp.CallToolResult, any, error) {
		return tools.SessionSchedule(ctx, deps, tools.SessionScheduleInput{SessionID: sessionID, DryRun: true})
	})
	run("session_schedule", func() (*mcp.CallToolResult, any, error) {
		return tools.SessionSchedule(ctx, deps, tools.SessionScheduleInput{SessionID: sessionID})
	})

	matches, err := store.LoadMatches(ctx, sessionID)
	if err != nil {
		panic(err)
	}
	for i, m := range matches {
		if i >= 3 {
			break
		}
		if err := store.RecordScore(ctx, sessionID, m.ID, 11, 5+i); err != nil {
			fmt.Printf("record score error: %v\n", err)
		}
	}
	run("session_standings", func() (*mcp.CallToolResult, any, error) {
		return tools.SessionStandings(ctx, deps, tools.SessionStandingsInput{SessionID: sessionID, Refresh: true})
	})
	run("session_schedule (scored, expect conflict)", func() (*mcp.CallToolResult, any, error) {
		return tools.SessionSchedule(ctx, deps, tools.SessionScheduleInput{SessionID: sessionID})
	})

	fmt.Println("Done at", time.Now().Format(time.RFC3339))
}

// run executes a tool function and prints the result.
func run(name string, fn func() (*mcp.CallToolResult, any, error)) any {
	fmt.Printf("\n=== %s ===\n", name)
	res, out, err := fn()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return nil
	}
	if res != nil && res.IsError {
		fmt.Printf("tool error: %s\n", toJSON(res.StructuredContent))
		return nil
	}
	fmt.Println(toJSON(out))
	return out
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<json error: %v>", err)
	}
	return string(b)
}
