package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"ladder-mcp/internal/config"
	"ladder-mcp/internal/db"
	"ladder-mcp/internal/logging"
	"ladder-mcp/internal/mcpserver"
	"ladder-mcp/internal/mcpserver/tools"
	"ladder-mcp/internal/metrics"
	"ladder-mcp/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// fallback logger
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	logger, err := logging.NewLogger(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		zap.NewExample().Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	var store tools.SessionStore
	if cfg.StoreEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to database", logging.FieldDSN("dsn", cfg.DatabaseDSN), zap.Error(err))
		}
		defer pool.Close()
		s := db.NewStore(pool, logging.WithComponent(logger, "store"))
		if cfg.AutoMigrate {
			if err := s.Migrate(ctx); err != nil {
				logger.Fatal("failed to migrate schema", zap.Error(err))
			}
		}
		logger.Info("session store connected", logging.FieldDSN("dsn", cfg.DatabaseDSN))
		store = s
	} else {
		logger.Info("no database_dsn; session tools disabled")
	}

	if cfg.Mode == config.ModeAdmin {
		logger.Info("admin mode: schedule writes enabled", logging.FieldSecret("approval_secret"))
	}

	m := metrics.New()
	srv := mcpserver.New(cfg, logger, store, m)

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(ctx, srv, logger)
	case config.TransportSSE:
		runSSE(ctx, srv, cfg, m, logger)
	case config.TransportStreamable:
		runStreamable(ctx, srv, cfg, m, logger)
	default:
		logger.Fatal("unknown transport", zap.String("transport", string(cfg.Transport)))
	}
}

func runStdio(ctx context.Context, srv *mcpserver.Server, logger *zap.Logger) {
	transport := &mcp.StdioTransport{}
	logger.Info("starting ladder-mcp server (stdio)", zap.String("version", version.Info().String()))
	if err := srv.Run(ctx, transport); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func runSSE(ctx context.Context, srv *mcpserver.Server, cfg config.Config, m *metrics.Metrics, logger *zap.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.HTTPAddr, cfg.HTTPPort)
	endpoint := cfg.HTTPPath

	logger.Info("starting ladder-mcp server (SSE)",
		zap.String("version", version.Info().String()),
		zap.String("addr", addr),
		zap.String("endpoint", endpoint),
	)

	mux := baseMux(cfg, m)

	// Live transports keyed by session id; an entry lives as long as its stream.
	var sessions sync.Map
	sessionPrefix := endpoint + "/session/"
	mux.HandleFunc(sessionPrefix, func(w http.ResponseWriter, r *http.Request) {
		t, ok := sessions.Load(strings.TrimPrefix(r.URL.Path, sessionPrefix))
		if !ok {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
		t.(*mcp.SSEServerTransport).ServeHTTP(w, r)
	})

	// GET opens an SSE stream; the client POSTs messages to its session endpoint.
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sessionID := generateSessionID()
		transport := &mcp.SSEServerTransport{
			Endpoint: sessionPrefix + sessionID,
			Response: w,
		}
		sessions.Store(sessionID, transport)
		defer sessions.Delete(sessionID)

		sessLog := logging.WithRequest(logger, r.Header.Get("X-Request-Id"), sessionID)
		sessLog.Info("new SSE session")
		if err := srv.Run(r.Context(), transport); err != nil {
			sessLog.Error("SSE session error", zap.Error(err))
		}
	})

	serve(ctx, &http.Server{Addr: addr, Handler: mux}, logger)
}

func runStreamable(ctx context.Context, srv *mcpserver.Server, cfg config.Config, m *metrics.Metrics, logger *zap.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.HTTPAddr, cfg.HTTPPort)
	endpoint := cfg.HTTPPath

	logger.Info("starting ladder-mcp server (Streamable HTTP)",
		zap.String("version", version.Info().String()),
		zap.String("addr", addr),
		zap.String("endpoint", endpoint),
	)

	mux := baseMux(cfg, m)
	// The handler keeps one transport per Mcp-Session-Id across requests.
	mux.Handle(endpoint, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv.MCP() }, nil))

	serve(ctx, &http.Server{Addr: addr, Handler: mux}, logger)
}

func baseMux(cfg config.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, m.Handler())
	}
	return mux
}

func serve(ctx context.Context, server *http.Server, logger *zap.Logger) {
	go func() {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("HTTP server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func generateSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
