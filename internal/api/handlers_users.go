// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/validation"
)

func userIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id >= 1
}

// PutPreferences handles PUT /api/v1/users/{id}/preferences. The stored
// profile is replaced wholesale; the path ID wins over any user_id in
// the body.
func (s *Server) PutPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a positive integer", nil)
		return
	}

	var profile recommend.Profile
	if err := decodeJSON(r, &profile); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&profile); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	if profile.MinPrice != nil && profile.MaxPrice != nil && *profile.MinPrice > *profile.MaxPrice {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "min_price must not exceed max_price", nil)
		return
	}

	profile.UserID = &userID
	if err := s.store.PutProfile(r.Context(), userID, profile); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to store preferences", err)
		return
	}

	s.logger.Info().Int("user_id", userID).Msg("preferences updated")
	respondSuccess(w, r, http.StatusOK, profile)
}

// GetPreferences handles GET /api/v1/users/{id}/preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a positive integer", nil)
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "preferences not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load preferences", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, profile)
}
