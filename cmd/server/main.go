// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Command server runs the Fablehouse chat API.
//
// Fablehouse answers children's questions about a curated content
// library: title availability ("is Matilda available?"), character
// lookups ("tell me about Peppa Pig"), genre browsing, and popularity
// recommendations ("what's trending?"). Questions that fall outside the
// library are forwarded to an OpenAI-compatible language model, with the
// reply checked against an age-appropriate readability threshold.
//
// # Startup order
//
//  1. Load configuration (defaults, optional YAML file, environment
//     variables) and initialize logging.
//  2. Open the SQLite catalogue and run migrations, including the FTS5
//     title index.
//  3. Build the conversation store, intent resolver, safety policy, and
//     (when enabled) the answer generator client.
//  4. Assemble the HTTP API and hand everything to a supervisor tree:
//     a maintenance layer (context sweeper, search-index optimizer) and
//     an API layer (HTTP server).
//
// SIGINT and SIGTERM trigger a graceful shutdown: the supervisor drains
// both layers and the HTTP server finishes in-flight requests within the
// configured shutdown timeout.
//
// # Configuration
//
// Every setting has an environment variable form, e.g.:
//
//	SERVER_PORT=8080
//	DATABASE_PATH=/data/fablehouse.db
//	GENERATOR_ENABLED=true
//	GENERATOR_BASE_URL=http://localhost:11434/v1
//
// See internal/config for the full set and their defaults.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fablehouse/fablehouse/internal/api"
	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/convo"
	"github.com/fablehouse/fablehouse/internal/database"
	"github.com/fablehouse/fablehouse/internal/dispatch"
	"github.com/fablehouse/fablehouse/internal/generator"
	"github.com/fablehouse/fablehouse/internal/intent"
	"github.com/fablehouse/fablehouse/internal/logging"
	"github.com/fablehouse/fablehouse/internal/resolver"
	"github.com/fablehouse/fablehouse/internal/safety"
	"github.com/fablehouse/fablehouse/internal/supervisor"
	"github.com/fablehouse/fablehouse/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("generator_enabled", cfg.Generator.Enabled).
		Dur("context_ttl", cfg.Context.TTL).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	store := convo.NewStore(cfg.Context.TTL)
	res := resolver.New(store, intent.DefaultVocabulary())
	policy := safety.NewPolicy(&cfg.Safety)

	var gen dispatch.Generator
	if cfg.Generator.Enabled {
		gen = generator.NewClient(&cfg.Generator)
		logging.Info().
			Str("base_url", cfg.Generator.BaseURL).
			Str("model", cfg.Generator.Model).
			Msg("Answer generator enabled")
	} else {
		logging.Info().Msg("Answer generator disabled - library answers only")
	}

	dispatcher := dispatch.New(db, db, db, gen, res, policy, cfg.Generator.HistoryLimit)

	handler := api.NewHandler(dispatcher, db, store, db)
	router := api.NewRouter(handler, &cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddMaintenanceService(services.NewSweeperService(store, cfg.Context.SweepInterval))
	if cfg.Database.OptimizeInterval > 0 {
		tree.AddMaintenanceService(services.NewOptimizeService(db, cfg.Database.OptimizeInterval))
	}
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Fablehouse stopped gracefully")
}
