// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"math"
	"strings"
	"time"
)

// EventKind classifies user-listing interaction events.
type EventKind string

const (
	// EventClick indicates the user opened a listing.
	EventClick EventKind = "click"
	// EventSave indicates the user saved a listing.
	EventSave EventKind = "save"
	// EventSearch indicates a search that surfaced the listing.
	EventSearch EventKind = "search"
)

// Valid reports whether the kind is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventClick, EventSave, EventSearch:
		return true
	default:
		return false
	}
}

// Listing represents a housing listing with raw and derived numeric features.
// Derived fields are computed per recommendation call and never persisted back.
type Listing struct {
	// ID is the unique listing identifier.
	ID int `json:"id"`

	// Title is the listing headline.
	Title string `json:"title,omitempty"`

	// Description is the free-text listing description.
	Description string `json:"description,omitempty"`

	// Price is the asking price.
	Price float64 `json:"price"`

	// Bedrooms is the bedroom count.
	Bedrooms float64 `json:"bedrooms"`

	// Bathrooms is the bathroom count.
	Bathrooms float64 `json:"bathrooms"`

	// Sqft is the interior area in square feet.
	Sqft float64 `json:"sqft"`

	// Location is the free-form location string.
	Location string `json:"location"`

	// PricePerSqft is derived: price / max(sqft, 1).
	PricePerSqft float64 `json:"price_per_sqft,omitempty"`

	// BedBathRatio is derived: bedrooms / (bathrooms + 0.1) with a
	// floor of 0.1 applied to a zero bathroom count.
	BedBathRatio float64 `json:"bed_bath_ratio,omitempty"`
}

// Event represents a user-listing interaction event.
type Event struct {
	// UserID is the user who generated the event.
	UserID int `json:"user_id"`

	// ListingID is the listing the event refers to, if any.
	// Search events may carry no listing.
	ListingID *int `json:"listing_id,omitempty"`

	// Kind is the event classification.
	Kind EventKind `json:"event_type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Profile holds a user's stated search preferences. Every field is
// optional; defaults are resolved by the accessor methods below so they
// are declared in exactly one place.
type Profile struct {
	// UserID identifies the user, when known. Required only for
	// collaborative scoring.
	UserID *int `json:"user_id,omitempty"`

	// MinPrice is the lower budget bound.
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,min=0"`

	// MaxPrice is the upper budget bound.
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,min=0"`

	// MinBedrooms is the minimum acceptable bedroom count.
	MinBedrooms *int `json:"min_bedrooms,omitempty" validate:"omitempty,min=0"`

	// PreferredLocations is an ordered list of location substrings.
	PreferredLocations []string `json:"preferred_locations,omitempty"`

	// PreferredLocation is the legacy single-location field. It is
	// treated as a one-element PreferredLocations.
	PreferredLocation string `json:"preferred_location,omitempty"`
}

// Default bounds used when the profile omits a field. The ideal-listing
// defaults intentionally differ from the filter defaults: filtering is
// permissive while the content vector needs a plausible market midpoint.
const (
	defaultIdealMinPrice = 100000
	defaultIdealMaxPrice = 500000
	defaultIdealBedrooms = 2
	idealBathrooms       = 2.0
	idealSqft            = 1500.0
)

// IsEmpty reports whether the profile carries no usable preference at all.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.UserID == nil &&
		p.MinPrice == nil &&
		p.MaxPrice == nil &&
		p.MinBedrooms == nil &&
		len(p.PreferredLocations) == 0 &&
		p.PreferredLocation == ""
}

// BudgetBounds returns the filter price bounds, defaulting to [0, +Inf).
func (p *Profile) BudgetBounds() (minPrice, maxPrice float64) {
	minPrice = 0
	maxPrice = math.Inf(1)
	if p.MinPrice != nil {
		minPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		maxPrice = *p.MaxPrice
	}
	return minPrice, maxPrice
}

// MinBeds returns the minimum bedroom count, defaulting to 0.
func (p *Profile) MinBeds() int {
	if p.MinBedrooms == nil {
		return 0
	}
	return *p.MinBedrooms
}

// Locations returns the normalized preferred-location list, folding the
// legacy single-location field in as a one-element sequence.
func (p *Profile) Locations() []string {
	out := make([]string, 0, len(p.PreferredLocations)+1)
	for _, loc := range p.PreferredLocations {
		if s := strings.TrimSpace(loc); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 && strings.TrimSpace(p.PreferredLocation) != "" {
		out = append(out, strings.TrimSpace(p.PreferredLocation))
	}
	return out
}

// IdealPriceMidpoint returns the price of the profile's ideal listing:
// the midpoint of the budget, with market defaults for absent bounds.
func (p *Profile) IdealPriceMidpoint() float64 {
	lo := float64(defaultIdealMinPrice)
	hi := float64(defaultIdealMaxPrice)
	if p.MinPrice != nil {
		lo = *p.MinPrice
	}
	if p.MaxPrice != nil {
		hi = *p.MaxPrice
	}
	return (lo + hi) / 2
}

// IdealBedrooms returns the bedroom count of the ideal listing.
func (p *Profile) IdealBedrooms() float64 {
	if p.MinBedrooms == nil {
		return defaultIdealBedrooms
	}
	return float64(*p.MinBedrooms)
}

// FilterStage identifies which stage of the constraint cascade produced
// the candidate set.
type FilterStage int

const (
	// StageStrict means all hard constraints held.
	StageStrict FilterStage = iota
	// StageRelaxed means the location constraint and lower price bound
	// were dropped.
	StageRelaxed
	// StageUnfiltered means no listing matched any filter and the full
	// inventory was returned.
	StageUnfiltered
)

// String returns a human-readable stage name.
func (s FilterStage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageRelaxed:
		return "relaxed"
	case StageUnfiltered:
		return "unfiltered"
	default:
		return "unknown"
	}
}

// FallbackMessage returns the user-facing note attached to results from
// a degraded stage, or "" for strict results.
func (s FilterStage) FallbackMessage() string {
	switch s {
	case StageRelaxed:
		return "We relaxed some of your filters to find more homes."
	case StageUnfiltered:
		return "No homes matched your filters, so we are showing the full inventory."
	default:
		return ""
	}
}

// Explanation carries the human-readable match reasons for one result.
type Explanation struct {
	// Reason is the composed reason string.
	Reason string `json:"reason"`

	// TopMatches lists every matched criterion.
	TopMatches []string `json:"top_matches"`
}

// ScoredListing is one ranked recommendation.
type ScoredListing struct {
	// Listing is the recommended listing with derived features populated.
	Listing Listing `json:"listing"`

	// Score is the fused hybrid score in [0, 1].
	Score float64 `json:"score"`

	// ContentMatch is the content-similarity component in [0, 1],
	// rounded to 4 decimal places.
	ContentMatch float64 `json:"content_match"`

	// CollabMatch is the collaborative component in [0, 1], rounded to
	// 4 decimal places.
	CollabMatch float64 `json:"collab_match"`

	// Explanation carries the match reasons.
	Explanation Explanation `json:"explanation"`

	// FallbackMessage is set when constraint relaxation occurred.
	FallbackMessage string `json:"fallback_message,omitempty"`
}

// Request is one recommendation request. Inputs are value snapshots; the
// engine never mutates them.
type Request struct {
	// Profile is the user's stated preferences.
	Profile Profile `json:"profile"`

	// Listings is the candidate inventory.
	Listings []Listing `json:"listings"`

	// Events is the observed interaction history across all users.
	Events []Event `json:"events,omitempty"`

	// Limit bounds the result length. Defaults to the engine config
	// when zero.
	Limit int `json:"limit,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the result of one recommendation request.
type Response struct {
	// Items is the ranked recommendation list.
	Items []ScoredListing `json:"items"`

	// Stage is the constraint-cascade stage that produced the candidates.
	Stage string `json:"stage"`

	// TotalCandidates is the inventory size before filtering.
	TotalCandidates int `json:"total_candidates"`

	// Metadata carries timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// ModelVersion is the promoted model version used, if any.
	ModelVersion string `json:"model_version,omitempty"`

	// CollabDegraded is true when collaborative scoring degraded to
	// all-zero scores.
	CollabDegraded bool `json:"collab_degraded,omitempty"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// ScalerParams are per-feature standardization parameters. A zero Std is
// treated as unit scale so constant features map to zero.
type ScalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// ModelSource provides the currently promoted scoring artifact, if any.
// Implemented by the training pipeline's live model handle; the interface
// lives here so this package has no dependency on the pipeline.
type ModelSource interface {
	// CurrentScaler returns the persisted standardization parameters
	// learned at training time, and whether a promoted model is live.
	CurrentScaler() (ScalerParams, bool)

	// CurrentVersion returns the promoted model version tag, or "".
	CurrentVersion() string
}
