// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: this package has no dependencies on other internal packages. The
// ModelSource interface lets the training pipeline feed the serving path
// without a circular import.

// Engine produces scored, explained, length-bounded recommendations.
// Every call computes over locally-scoped state only, so any number of
// calls may run concurrently; the only shared read is the ModelSource,
// whose implementation must be atomically replaceable.
type Engine struct {
	config *Config
	logger zerolog.Logger
	models ModelSource
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetModelSource wires the live model handle read by every recommend call.
func (e *Engine) SetModelSource(ms ModelSource) {
	e.models = ms
}

// Recommend scores the candidate inventory against the profile. An empty
// profile or empty inventory yields an empty result, never an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(req Request) (*Response, error) {
	start := time.Now()
	req = e.prepareRequest(req)

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("candidates", len(req.Listings)).
		Logger()

	if len(req.Listings) == 0 || req.Profile.IsEmpty() {
		logger.Debug().Msg("empty profile or inventory, returning no recommendations")
		return e.emptyResponse(req, start), nil
	}

	// Derived features feed both scorers and the explanations.
	engineered := make([]Listing, len(req.Listings))
	for i, l := range req.Listings {
		engineered[i] = EngineerFeatures(l)
	}

	filtered := applyConstraintCascade(&req.Profile, engineered)

	contentScores := scoreContent(&req.Profile, filtered.listings, e.persistedScaler())

	collab := scoreCollaborative(&req.Profile, filtered.listings, req.Events)
	if collab.degraded {
		logger.Warn().Err(collab.cause).Msg("collaborative scoring degraded to zero scores")
	}

	items := rankHybrid(filtered.listings, contentScores, collab.scores,
		e.config.ContentWeight, e.config.CollabWeight, req.Limit)

	fallback := filtered.stage.FallbackMessage()
	for i := range items {
		items[i].Explanation = explainMatch(&req.Profile, items[i].Listing)
		items[i].FallbackMessage = fallback
	}

	resp := &Response{
		Items:           items,
		Stage:           filtered.stage.String(),
		TotalCandidates: len(req.Listings),
		Metadata: ResponseMetadata{
			RequestID:      req.RequestID,
			LatencyMS:      time.Since(start).Milliseconds(),
			ModelVersion:   e.modelVersion(),
			CollabDegraded: collab.degraded,
			Timestamp:      time.Now(),
		},
	}

	logger.Debug().
		Str("stage", filtered.stage.String()).
		Int("returned", len(items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies limit defaults and generates a request ID.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = "rec-" + uuid.NewString()
	}
	if req.Limit <= 0 {
		req.Limit = e.config.DefaultLimit
	}
	if e.config.MaxLimit > 0 && req.Limit > e.config.MaxLimit {
		req.Limit = e.config.MaxLimit
	}
	return req
}

// persistedScaler returns the live model's standardization parameters, or
// nil when no model is promoted and the per-call refit applies.
func (e *Engine) persistedScaler() *ScalerParams {
	if e.models == nil {
		return nil
	}
	params, ok := e.models.CurrentScaler()
	if !ok {
		return nil
	}
	return &params
}

// modelVersion returns the promoted model version tag, or "".
func (e *Engine) modelVersion() string {
	if e.models == nil {
		return ""
	}
	return e.models.CurrentVersion()
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Items:           []ScoredListing{},
		Stage:           StageStrict.String(),
		TotalCandidates: len(req.Listings),
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			LatencyMS:    time.Since(start).Milliseconds(),
			ModelVersion: e.modelVersion(),
			Timestamp:    time.Now(),
		},
	}
}
