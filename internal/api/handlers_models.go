// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/nestscout/nestscout/internal/mlpipeline"
)

// TriggerTraining handles POST /api/v1/models/train. Training runs in
// the background; a run already in flight yields 409.
func (s *Server) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	// The run outlives the request, so it gets a fresh context.
	err := s.pipeline.TriggerAsync(context.Background())
	if err != nil {
		if errors.Is(err, mlpipeline.ErrTrainingInProgress) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, "a training run is already in progress", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to start training", err)
		return
	}

	s.logger.Info().Msg("training run triggered")
	respondSuccess(w, r, http.StatusAccepted, map[string]string{
		"status": "training_started",
	})
}

// ModelRegistry handles GET /api/v1/models/registry.
func (s *Server) ModelRegistry(w http.ResponseWriter, r *http.Request) {
	registry := s.pipeline.Registry()
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"production": registry.ProductionVersion(),
		"versions":   registry.Entries(),
	})
}

// ModelStatus handles GET /api/v1/models/status.
func (s *Server) ModelStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, s.pipeline.Status())
}
