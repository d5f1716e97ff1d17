// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers retraining on a cron schedule. It implements
// suture.Service so the supervisor tree owns its lifecycle.
type Scheduler struct {
	pipeline *Pipeline
	schedule string
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler for the given pipeline. The schedule
// uses the standard five-field cron format.
func NewScheduler(pipeline *Pipeline, schedule string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		schedule: schedule,
		logger:   logger.With().Str("component", "train-scheduler").Logger(),
	}
}

// Serve runs the cron loop until the context is canceled. A tick that
// lands while a run is active is dropped; the next tick tries again.
func (s *Scheduler) Serve(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.schedule, func() {
		err := s.pipeline.TriggerAsync(context.Background())
		switch {
		case errors.Is(err, ErrTrainingInProgress):
			s.logger.Debug().Msg("scheduled run skipped, training already active")
		case err != nil:
			s.logger.Error().Err(err).Msg("scheduled run failed to start")
		default:
			s.logger.Info().Msg("scheduled training run started")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	c.Start()
	<-ctx.Done()

	// Stop returns a context that completes once running jobs drain.
	<-c.Stop().Done()
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *Scheduler) String() string {
	return "train-scheduler"
}
