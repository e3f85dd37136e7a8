package main

import (
	"log"
	"os"

	"github.com/hyalite/mediacopy/internal/api"
	"github.com/hyalite/mediacopy/internal/config"
	"github.com/hyalite/mediacopy/internal/dumper"
	"github.com/hyalite/mediacopy/internal/engine"
	"github.com/hyalite/mediacopy/internal/hal"
	"github.com/hyalite/mediacopy/internal/hal/soft"
	"github.com/hyalite/mediacopy/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("mcpyd: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"generation", cfg.Generation,
		"debug", cfg.Debug,
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	gen, err := hal.LookupGeneration(cfg.Generation)
	if err != nil {
		log.Fatalf("failed to load generation tables: %v", err)
	}

	// The software HAL stands in for the hardware path: it provides surface
	// metadata, the decompressor, and one engine per dispatch slot.
	dev := soft.New()
	registry := hal.NewRegistry()
	for _, e := range dev.Engines() {
		registry.Register(e)
	}

	var dmp *dumper.Dumper
	if cfg.Debug && cfg.DumpDir != "" {
		dmp, err = dumper.New(cfg.DumpDir, dev, logger)
		if err != nil {
			log.Fatalf("failed to create dump directory: %v", err)
		}
	}

	eng := engine.New(engine.Options{
		Provider:              dev,
		Decompressor:          dev,
		Registry:              registry,
		Support:               gen,
		Store:                 db,
		Dumper:                dmp,
		Logger:                logger,
		AllowProtectedBltCopy: cfg.AllowProtectedBltCopy,
		ForceMode:             cfg.ForceMode,
		Debug:                 cfg.Debug,
	})

	srv := api.NewServer(cfg.ListenAddr, api.Deps{
		Store:                 db,
		Registry:              registry,
		Engine:                eng,
		HAL:                   dev,
		Generation:            gen,
		Logger:                logger,
		AllowProtectedBltCopy: cfg.AllowProtectedBltCopy,
	})

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
