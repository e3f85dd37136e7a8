package config_test

import (
	"log/slog"
	"testing"

	"github.com/hyalite/mediacopy/internal/config"
	"github.com/hyalite/mediacopy/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.DBPath != "mcpy.db" {
		t.Errorf("DBPath = %q, want mcpy.db", cfg.DBPath)
	}
	if cfg.Generation != "xe-lp" {
		t.Errorf("Generation = %q, want xe-lp", cfg.Generation)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Debug || cfg.ForceMode != model.ForceNone {
		t.Error("debug knobs populated without MCPY_DEBUG")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MCPY_LISTEN_ADDR", ":9090")
	t.Setenv("MCPY_DB_PATH", "/tmp/test.db")
	t.Setenv("MCPY_LOG_LEVEL", "debug")
	t.Setenv("MCPY_GENERATION", "xe-hpg")
	t.Setenv("MCPY_ALLOW_CP_BLT_COPY", "1")

	cfg := config.Load()
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Generation != "xe-hpg" {
		t.Errorf("Generation = %q, want xe-hpg", cfg.Generation)
	}
	if !cfg.AllowProtectedBltCopy {
		t.Error("AllowProtectedBltCopy = false, want true")
	}
}

func TestForceModeRequiresDebug(t *testing.T) {
	t.Setenv("MCPY_FORCE_MODE", "bypass")
	t.Setenv("MCPY_DUMP_DIR", "/tmp/dumps")

	cfg := config.Load()
	if cfg.ForceMode != model.ForceNone {
		t.Errorf("ForceMode = %q without debug, want ForceNone", cfg.ForceMode)
	}
	if cfg.DumpDir != "" {
		t.Errorf("DumpDir = %q without debug, want empty", cfg.DumpDir)
	}

	t.Setenv("MCPY_DEBUG", "1")
	cfg = config.Load()
	if cfg.ForceMode != model.ForceBypass {
		t.Errorf("ForceMode = %q with debug, want bypass", cfg.ForceMode)
	}
	if cfg.DumpDir != "/tmp/dumps" {
		t.Errorf("DumpDir = %q with debug, want /tmp/dumps", cfg.DumpDir)
	}
}

func TestParseForceModeUnknown(t *testing.T) {
	t.Setenv("MCPY_DEBUG", "1")
	t.Setenv("MCPY_FORCE_MODE", "warp-speed")

	cfg := config.Load()
	if cfg.ForceMode != model.ForceNone {
		t.Errorf("ForceMode = %q for unknown value, want ForceNone", cfg.ForceMode)
	}
}
