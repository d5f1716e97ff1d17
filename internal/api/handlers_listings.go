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

// listingRequest is the create-listing payload.
type listingRequest struct {
	ID          int     `json:"id" validate:"required,min=1"`
	Title       string  `json:"title" validate:"omitempty,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Bedrooms    float64 `json:"bedrooms" validate:"min=0"`
	Bathrooms   float64 `json:"bathrooms" validate:"min=0"`
	Sqft        float64 `json:"sqft" validate:"min=0"`
	Location    string  `json:"location" validate:"omitempty,max=200"`
}

func (req *listingRequest) toListing() recommend.Listing {
	return recommend.Listing{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Sqft:        req.Sqft,
		Location:    req.Location,
	}
}

// CreateListing handles POST /api/v1/listings.
func (s *Server) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	listing := req.toListing()
	if err := s.store.PutListing(r.Context(), listing); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to store listing", err)
		return
	}

	s.logger.Info().Int("listing_id", listing.ID).Msg("listing created")
	respondSuccess(w, r, http.StatusCreated, listing)
}

// ListListings handles GET /api/v1/listings.
func (s *Server) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.Listings(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load listings", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/v1/listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "listing id must be a positive integer", nil)
		return
	}

	listing, err := s.store.GetListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "listing not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load listing", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, listing)
}
