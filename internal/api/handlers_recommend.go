// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nestscout/nestscout/internal/metrics"
	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/validation"
)

// recommendRequest is the recommendation payload. The profile may be
// given inline, or resolved from stored preferences via user_id.
type recommendRequest struct {
	UserID  *int               `json:"user_id" validate:"omitempty,min=1"`
	Profile *recommend.Profile `json:"profile"`
	Limit   int                `json:"limit" validate:"omitempty,min=1,max=100"`
}

// Recommend handles POST /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	profile, ok := s.resolveProfile(w, r, &req)
	if !ok {
		return
	}

	listings, err := s.store.Listings(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load listings", err)
		return
	}
	events, err := s.store.Events(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load interactions", err)
		return
	}

	start := time.Now()
	resp, err := s.engine.Recommend(recommend.Request{
		Profile:   profile,
		Listings:  listings,
		Events:    events,
		Limit:     req.Limit,
		RequestID: requestIDFrom(r),
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "recommendation failed", err)
		return
	}
	metrics.RecordRecommendation(resp.Stage, resp.Metadata.CollabDegraded, time.Since(start))

	respondSuccess(w, r, http.StatusOK, resp)
}

// RecommendForUser handles GET /api/v1/recommendations/user/{id},
// ranking against the user's stored preferences. Unknown users get
// popularity-only ranking via an empty profile.
func (s *Server) RecommendForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a positive integer", nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load preferences", err)
			return
		}
		profile = recommend.Profile{UserID: &userID}
	}

	listings, err := s.store.Listings(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load listings", err)
		return
	}
	events, err := s.store.Events(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load interactions", err)
		return
	}

	start := time.Now()
	resp, err := s.engine.Recommend(recommend.Request{
		Profile:   profile,
		Listings:  listings,
		Events:    events,
		Limit:     limit,
		RequestID: requestIDFrom(r),
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "recommendation failed", err)
		return
	}
	metrics.RecordRecommendation(resp.Stage, resp.Metadata.CollabDegraded, time.Since(start))

	respondSuccess(w, r, http.StatusOK, resp)
}

// resolveProfile picks the inline profile when present, otherwise the
// stored preferences for user_id. A missing stored profile falls back
// to an empty one carrying only the user ID, so popularity ranking
// still works for unknown users.
func (s *Server) resolveProfile(w http.ResponseWriter, r *http.Request, req *recommendRequest) (recommend.Profile, bool) {
	if req.Profile != nil {
		profile := *req.Profile
		if profile.UserID == nil {
			profile.UserID = req.UserID
		}
		return profile, true
	}

	if req.UserID == nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "either profile or user_id is required", nil)
		return recommend.Profile{}, false
	}

	profile, err := s.store.GetProfile(r.Context(), *req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return recommend.Profile{UserID: req.UserID}, true
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load preferences", err)
		return recommend.Profile{}, false
	}
	return profile, true
}
