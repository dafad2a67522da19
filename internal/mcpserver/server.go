package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/cache"
	"ladder-mcp/internal/config"
	"ladder-mcp/internal/mcpserver/prompts"
	"ladder-mcp/internal/mcpserver/resources"
	"ladder-mcp/internal/mcpserver/tools"
	"ladder-mcp/internal/metrics"
	"ladder-mcp/internal/safety"
	"ladder-mcp/internal/version"
)

type Server struct {
	cfg        config.Config
	logger     *zap.Logger
	guardrails *safety.Guardrails
	deps       tools.Dependencies
	srv        *mcp.Server
}

// New builds the MCP server. store may be nil; session tools then report
// STORE_UNAVAILABLE.
func New(cfg config.Config, logger *zap.Logger, store tools.SessionStore, m *metrics.Metrics) *Server {
	impl := &mcp.Implementation{Name: version.Name, Version: version.Version}
	srv := mcp.NewServer(impl, nil)
	guard := safety.NewGuardrails(cfg)
	if m == nil {
		m = metrics.New()
	}
	deps := tools.Dependencies{
		Store:      store,
		Logger:     logger,
		Guardrails: guard,
		Limiter:    safety.NewLimiter(cfg.MaxConcurrentGenerations),
		Metrics:    m,
		Standings:  cache.New[tools.StandingsOutput](),
		Config:     cfg,
	}
	tools.Register(srv, deps)
	prompts.RegisterAll(srv, deps)
	resources.RegisterAll(srv, deps)
	return &Server{cfg: cfg, logger: logger, guardrails: guard, deps: deps, srv: srv}
}

// MCP exposes the underlying server for HTTP transport handlers.
func (s *Server) MCP() *mcp.Server { return s.srv }

// Run runs the server with the provided transport (e.g., &mcp.StdioTransport{}).
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	start := time.Now()
	err := s.srv.Run(ctx, transport)
	s.logger.Info("transport closed", zap.Duration("uptime", time.Since(start)), zap.Error(err))
	return err
}
