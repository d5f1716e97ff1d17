// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/validation"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries a machine-readable code plus a human message.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes used across endpoints.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// respondJSON writes the envelope with proper headers.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *APIResponse) {
	if response.Meta == nil {
		response.Meta = &APIMeta{Timestamp: time.Now().UTC()}
	}
	if response.Meta.RequestID == "" {
		response.Meta.RequestID = requestIDFrom(r)
	}

	data, err := json.Marshal(response)
	if err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Msg("write response")
	}
}

// respondSuccess writes a 2xx envelope wrapping data.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &APIResponse{Success: true, Data: data})
}

// respondError writes an error envelope. err is logged, never sent to
// the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logger := logging.Logger()
		logger.Error().
			Str("code", code).
			Str("path", r.URL.Path).
			Err(err).
			Msg("api error")
	}
	respondJSON(w, r, status, &APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// respondValidationError writes a 400 VALIDATION_FAILED envelope with
// per-field details.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestError) {
	respondJSON(w, r, http.StatusBadRequest, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    ErrCodeValidationFailed,
			Message: verr.Error(),
			Details: verr.Fields(),
		},
	})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
