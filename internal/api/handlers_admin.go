// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"net/http"
	"time"

	"github.com/nestscout/nestscout/internal/validation"
	"github.com/nestscout/nestscout/internal/websocket"
)

// seedRequest is the demo-data seeding payload. An empty body uses the
// defaults.
type seedRequest struct {
	Seed  int64 `json:"seed"`
	Clear bool  `json:"clear"`
}

// SeedData handles POST /api/v1/seed. Seeding is skipped when the
// store already holds enough listings, unless clear is set.
func (s *Server) SeedData(w http.ResponseWriter, r *http.Request) {
	req := seedRequest{Seed: 42}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", err)
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondValidationError(w, r, verr)
			return
		}
	}

	result, err := s.store.Seed(r.Context(), req.Seed, req.Clear)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "seeding failed", err)
		return
	}

	if !result.Skipped && s.hub != nil {
		s.hub.BroadcastJSON(websocket.MessageTypeSeedDone, result)
	}
	respondSuccess(w, r, http.StatusOK, result)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := s.pipeline.Status()
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"time":             time.Now().UTC(),
		"production_model": status.Production,
		"pipeline_state":   status.State,
	})
}
