// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/validation"
)

// interactionRequest is the record-interaction payload.
type interactionRequest struct {
	UserID    int        `json:"user_id" validate:"required,min=1"`
	ListingID *int       `json:"listing_id" validate:"omitempty,min=1"`
	EventType string     `json:"event_type" validate:"required,oneof=click save search"`
	Timestamp *time.Time `json:"timestamp"`
}

// CreateInteraction handles POST /api/v1/interactions. Click and save
// events must reference a listing; search events may omit one.
func (s *Server) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	kind := recommend.EventKind(req.EventType)
	if kind != recommend.EventSearch && req.ListingID == nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "listing_id is required for click and save events", nil)
		return
	}
	if req.ListingID != nil {
		if _, err := s.store.GetListing(r.Context(), *req.ListingID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "listing not found", nil)
				return
			}
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to check listing", err)
			return
		}
	}

	event := recommend.Event{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
	if req.Timestamp != nil {
		event.Timestamp = *req.Timestamp
	}

	if err := s.store.AddEvent(r.Context(), event); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to store interaction", err)
		return
	}

	respondSuccess(w, r, http.StatusCreated, event)
}
