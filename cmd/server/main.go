// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package main is the entry point for the NestScout server.
//
// NestScout is a self-hosted housing listing recommendation service.
// It ranks listings with a hybrid scorer that blends content similarity
// against the user's stated preferences with collaborative signals from
// interaction history, and periodically retrains a save-prediction
// model that augments the scorer once promoted.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, YAML file,
//     NESTSCOUT_* environment variables)
//  2. Store: BadgerDB-backed listings, interactions, and preferences
//  3. Model handle: the production model artifact is restored from disk
//     so recommendations survive restarts
//  4. Recommendation engine
//  5. Training pipeline plus its cron scheduler
//  6. WebSocket hub for live model promotion events
//  7. HTTP API under a suture supervision tree
//
// Graceful shutdown is triggered by SIGINT or SIGTERM: the supervisor
// drains every service, then the store is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nestscout/nestscout/internal/api"
	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/mlpipeline"
	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/supervisor"
	"github.com/nestscout/nestscout/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nestscout: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting nestscout")

	st, err := store.Open(cfg.Store, logging.Component("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("store close failed")
		}
	}()

	engine, err := recommend.NewEngine(&cfg.Recommend, logging.Component("recommend"))
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	live := mlpipeline.NewLiveModel()
	pipeline, err := mlpipeline.NewPipeline(cfg.Training, st, live, logging.Component("mlpipeline"))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	engine.SetModelSource(live)

	hub := websocket.NewHub()
	pipeline.SetPromotionHook(func(artifact *mlpipeline.Artifact) {
		hub.BroadcastModelPromoted(artifact.Version, artifact.Metrics.F1)
	})

	server, err := api.NewServer(cfg, st, engine, pipeline, hub)
	if err != nil {
		return fmt.Errorf("build api: %w", err)
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddBackgroundService(hub)
	tree.AddBackgroundService(mlpipeline.NewScheduler(pipeline, cfg.Training.Schedule, logging.Component("train-scheduler")))
	tree.AddAPIService(supervisor.NewHTTPService(cfg.Server, server.Routes()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor: %w", err)
		}
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logger.Info().Msg("nestscout stopped")
	return nil
}
