// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package main is the entry point for the AV Signal Lab server.
//
// AV Signal Lab diagnoses HDMI signal chain problems in home
// theaters: it analyzes exported matrix configurations, compares
// pre-roll video formats against library content to eliminate
// blank-screen handshakes, and generates equipment-aware setup
// recommendations.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, file, env)
//  2. Logging: zerolog, JSON or console format
//  3. Device store: BadgerDB for user-added equipment profiles
//  4. ffprobe discovery: optional; manual analysis works without it
//  5. HTTP server: Chi router with the REST API
//
// Configuration uses the AVLAB_ env prefix, e.g. AVLAB_SERVER_PORT,
// AVLAB_STORAGE_DATA_DIR, AVLAB_PROBE_FFPROBE_PATH.
//
// The server shuts down gracefully on SIGINT and SIGTERM, waiting up
// to 10 seconds for in-flight requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwrenn/avsignallab/internal/analyzer"
	"github.com/mwrenn/avsignallab/internal/api"
	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/config"
	"github.com/mwrenn/avsignallab/internal/export"
	"github.com/mwrenn/avsignallab/internal/logging"
	"github.com/mwrenn/avsignallab/internal/preroll"
	"github.com/mwrenn/avsignallab/internal/probe"
	"github.com/mwrenn/avsignallab/internal/recommend"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("Starting AV Signal Lab")

	// Device store is optional: a read-only catalog still serves the
	// diagnostic engines if the data directory is unusable.
	var store *catalog.Store
	store, err = catalog.OpenStore(cfg.Storage.DataDir)
	if err != nil {
		logging.Warn().Err(err).Msg("Custom device store unavailable, continuing with built-in catalog only")
		store = nil
	} else {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing device store")
			}
		}()
	}

	var cat *catalog.Catalog
	if store != nil {
		cat = catalog.NewWithStore(store)
	} else {
		cat = catalog.New()
	}

	exports, err := export.NewStore(cfg.Storage.ExportDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize export store")
	}

	// ffprobe is optional. Without it, file probing returns 503 while
	// manual descriptor analysis keeps working.
	prober, err := probe.New(cfg.Probe)
	if err != nil {
		if errors.Is(err, probe.ErrFFprobeNotFound) {
			logging.Warn().Msg("ffprobe not found, file analysis disabled (install FFmpeg to enable)")
		} else {
			logging.Warn().Err(err).Msg("ffprobe unavailable, file analysis disabled")
		}
		prober = nil
	}

	ffmpegPath := cfg.Probe.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	router := api.New(
		cfg,
		cat,
		store,
		analyzer.NewEngine(cat),
		preroll.NewEngine(ffmpegPath),
		recommend.NewEngine(cat),
		prober,
		exports,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed, forcing close")
		_ = server.Close()
	}

	logging.Info().Msg("Server stopped gracefully")
}
