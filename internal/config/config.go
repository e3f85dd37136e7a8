package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hyalite/mediacopy/internal/model"
)

const (
	defaultListenAddr = ":8080"
	defaultDBPath     = "mcpy.db"
	defaultGeneration = "xe-lp"

	envListenAddr      = "MCPY_LISTEN_ADDR"
	envDBPath          = "MCPY_DB_PATH"
	envLogLevel        = "MCPY_LOG_LEVEL"
	envGeneration      = "MCPY_GENERATION"
	envAllowCPBltCopy  = "MCPY_ALLOW_CP_BLT_COPY"
	envDebug           = "MCPY_DEBUG"
	envForceMode       = "MCPY_FORCE_MODE"
	envDumpDir         = "MCPY_DUMP_DIR"
)

// Config holds application configuration loaded from environment variables.
// ForceMode and DumpDir are diagnostic knobs and are only populated when
// Debug is enabled, so production processes can never reach the selection
// override or the dump path.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level
	Generation string

	// AllowProtectedBltCopy permits protected→clear blitter copies.
	AllowProtectedBltCopy bool

	Debug     bool
	ForceMode model.ForceMode
	DumpDir   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		ListenAddr: defaultListenAddr,
		DBPath:     defaultDBPath,
		LogLevel:   slog.LevelInfo,
		Generation: defaultGeneration,
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(envGeneration); v != "" {
		cfg.Generation = v
	}
	cfg.AllowProtectedBltCopy = parseBool(os.Getenv(envAllowCPBltCopy))
	cfg.Debug = parseBool(os.Getenv(envDebug))

	if cfg.Debug {
		cfg.ForceMode = parseForceMode(os.Getenv(envForceMode))
		cfg.DumpDir = os.Getenv(envDumpDir)
	}

	return cfg
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseForceMode(s string) model.ForceMode {
	switch strings.ToLower(s) {
	case "performance":
		return model.ForcePerformance
	case "balanced":
		return model.ForceBalanced
	case "powersaving":
		return model.ForcePowerSaving
	case "bypass":
		return model.ForceBypass
	default:
		return model.ForceNone
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
