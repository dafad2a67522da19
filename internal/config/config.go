package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"ladder-mcp/internal/scheduler"
)

type Mode string

const (
	ModeReadOnly Mode = "read_only"
	ModeAdmin    Mode = "admin"
)

type Transport string

const (
	TransportStdio      Transport = "stdio"
	TransportSSE        Transport = "sse"
	TransportStreamable Transport = "streamable"
)

type Config struct {
	DatabaseDSN              string    `mapstructure:"database_dsn"`
	ConnectTimeoutSeconds    int       `mapstructure:"connect_timeout_seconds"`
	StatementTimeoutMs       int       `mapstructure:"statement_timeout_ms"`
	AppName                  string    `mapstructure:"app_name"`
	AutoMigrate              bool      `mapstructure:"auto_migrate"`
	Mode                     Mode      `mapstructure:"mode"`
	ApprovalSecret           string    `mapstructure:"approval_secret"`
	Restarts                 int       `mapstructure:"restarts"`
	Workers                  int       `mapstructure:"workers"`
	// MaxConcurrentGenerations bounds schedule generations in flight.
	MaxConcurrentGenerations int       `mapstructure:"max_concurrent_generations"`
	MaxRosterSize            int       `mapstructure:"max_roster_size"`
	MaxGamesPerPlayer        int       `mapstructure:"max_games_per_player"`
	DefaultGamesPerPlayer    int       `mapstructure:"default_games_per_player"`
	DefaultScheduleMode      string    `mapstructure:"default_schedule_mode"`
	EnableCaching            bool      `mapstructure:"enable_caching"`
	CacheTTLSeconds          int       `mapstructure:"cache_ttl_seconds"`
	LogLevel                 string    `mapstructure:"log_level"`
	LogFile                  string    `mapstructure:"log_file"`
	Transport                Transport `mapstructure:"transport"`
	HTTPAddr                 string    `mapstructure:"http_addr"`
	HTTPPort                 int       `mapstructure:"http_port"`
	HTTPPath                 string    `mapstructure:"http_path"`
	MetricsPath              string    `mapstructure:"metrics_path"`
}

// StoreEnabled reports whether session tools can reach a database.
func (c Config) StoreEnabled() bool { return c.DatabaseDSN != "" }

func defaults(v *viper.Viper) {
	v.SetDefault("database_dsn", "")
	v.SetDefault("connect_timeout_seconds", 5)
	v.SetDefault("statement_timeout_ms", 30000)
	v.SetDefault("app_name", "ladder-mcp")
	v.SetDefault("auto_migrate", false)
	v.SetDefault("mode", string(ModeReadOnly))
	v.SetDefault("approval_secret", "")
	v.SetDefault("restarts", scheduler.DefaultRestarts)
	v.SetDefault("workers", 0)
	v.SetDefault("max_concurrent_generations", 1)
	v.SetDefault("max_roster_size", 64)
	v.SetDefault("max_games_per_player", 16)
	v.SetDefault("default_games_per_player", 4)
	v.SetDefault("default_schedule_mode", string(scheduler.ModeSocial))
	v.SetDefault("enable_caching", true)
	v.SetDefault("cache_ttl_seconds", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("transport", string(TransportStdio))
	v.SetDefault("http_addr", "127.0.0.1")
	v.SetDefault("http_port", 8080)
	v.SetDefault("http_path", "/mcp")
	v.SetDefault("metrics_path", "/metrics")
}

func Load() (Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs resolves defaults, config file, environment and flags, in rising precedence.
func LoadArgs(args []string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("LADDER_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("ladder-mcp", pflag.ContinueOnError)
	var cfgPathFlag string
	fs.StringVarP(&cfgPathFlag, "config", "c", "", "Config file path (yaml|json|toml)")
	fs.String("database-dsn", "", "PostgreSQL DSN for session storage (optional)")
	fs.String("dsn", "", "Database DSN (alias for database-dsn)")
	fs.Int("connect-timeout-seconds", 5, "Connection timeout in seconds")
	fs.Int("statement-timeout-ms", 30000, "Statement timeout in milliseconds")
	fs.String("app-name", "ladder-mcp", "Application name")
	fs.Bool("auto-migrate", false, "Create tables on startup")
	fs.String("mode", string(ModeReadOnly), "Mode: read_only|admin")
	fs.String("approval-secret", "", "Approval secret (required in admin mode)")
	fs.Int("restarts", scheduler.DefaultRestarts, "Optimizer restarts per schedule")
	fs.Int("workers", 0, "Concurrent restarts (0 = GOMAXPROCS)")
	fs.Int("max-concurrent-generations", 1, "Schedule generations allowed in flight")
	fs.Int("max-roster-size", 64, "Largest roster accepted for scheduling")
	fs.Int("max-games-per-player", 16, "Largest games-per-player accepted")
	fs.Int("default-games-per-player", 4, "Games per player when a request omits it")
	fs.String("default-schedule-mode", string(scheduler.ModeSocial), "SOCIAL|COMPETITIVE")
	fs.Bool("enable-caching", true, "Enable caching")
	fs.Int("cache-ttl-seconds", 30, "Cache TTL in seconds")
	fs.String("log-level", "info", "Log level")
	fs.String("log-file", "", "Also write JSON logs to this rotating file")
	fs.String("transport", string(TransportStdio), "Transport: stdio|sse|streamable")
	fs.String("http-addr", "127.0.0.1", "HTTP listen address")
	fs.Int("http-port", 8080, "HTTP listen port")
	fs.String("http-path", "/mcp", "HTTP endpoint path")
	fs.String("metrics-path", "/metrics", "Prometheus metrics path (empty disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfgPath := cfgPathFlag
	if cfgPath == "" {
		cfgPath = os.Getenv("LADDER_MCP_CONFIG")
	}
	if cfgPath != "" {
		if err := readConfigFile(v, cfgPath); err != nil {
			return Config{}, err
		}
	} else {
		_ = readDefaultConfig(v) // best-effort
	}

	// Only flags set explicitly override the file and environment.
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return Config{}, fmt.Errorf("bind flags: %w", bindErr)
	}

	if v.GetString("database_dsn") == "" {
		if dsn := v.GetString("dsn"); dsn != "" {
			v.Set("database_dsn", dsn)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Mode != ModeReadOnly && cfg.Mode != ModeAdmin {
		return fmt.Errorf("config: mode must be one of [%s,%s]", ModeReadOnly, ModeAdmin)
	}
	if cfg.Mode == ModeAdmin && cfg.ApprovalSecret == "" {
		return errors.New("config: approval_secret is required when mode=admin")
	}
	if cfg.ConnectTimeoutSeconds <= 0 {
		return errors.New("config: connect_timeout_seconds must be > 0")
	}
	if cfg.StatementTimeoutMs <= 0 {
		return errors.New("config: statement_timeout_ms must be > 0")
	}
	if cfg.Restarts <= 0 {
		return errors.New("config: restarts must be > 0")
	}
	if cfg.Workers < 0 {
		return errors.New("config: workers must be >= 0")
	}
	if cfg.MaxConcurrentGenerations <= 0 {
		return errors.New("config: max_concurrent_generations must be > 0")
	}
	if cfg.MaxRosterSize < 4 {
		return errors.New("config: max_roster_size must be >= 4")
	}
	if cfg.MaxGamesPerPlayer <= 0 {
		return errors.New("config: max_games_per_player must be > 0")
	}
	if cfg.DefaultGamesPerPlayer <= 0 || cfg.DefaultGamesPerPlayer > cfg.MaxGamesPerPlayer {
		return fmt.Errorf("config: default_games_per_player must be in [1,%d]", cfg.MaxGamesPerPlayer)
	}
	if _, err := scheduler.ParseMode(cfg.DefaultScheduleMode); err != nil {
		return fmt.Errorf("config: default_schedule_mode: %w", err)
	}
	switch cfg.Transport {
	case TransportStdio, TransportSSE, TransportStreamable:
	default:
		return fmt.Errorf("config: transport must be one of [%s,%s,%s]", TransportStdio, TransportSSE, TransportStreamable)
	}
	if cfg.Transport != TransportStdio && (cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535) {
		return errors.New("config: http_port must be in [1,65535]")
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

func readDefaultConfig(v *viper.Viper) error {
	paths := defaultConfigCandidates()
	exts := []string{"yaml", "yml", "json", "toml"}
	for _, base := range paths {
		for _, ext := range exts {
			candidate := base + "." + ext
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read default config %s: %w", candidate, err)
				}
				return nil
			}
		}
	}
	return nil
}

func defaultConfigCandidates() []string {
	var out []string
	cwd, _ := os.Getwd()
	if cwd != "" {
		out = append(out,
			filepath.Join(cwd, "ladder-mcp"),
			filepath.Join(cwd, "config", "ladder-mcp"),
		)
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		out = append(out, filepath.Join(xdg, "ladder-mcp", "config"))
	}
	return out
}
