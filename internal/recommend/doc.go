// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package recommend implements the hybrid recommendation scoring engine.
//
// A recommendation call flows through a fixed pipeline:
//
//	ConstraintFilter -> FeatureEngineer -> {ContentScorer, CollaborativeScorer}
//	                 -> HybridRanker -> ExplanationGenerator
//
// The constraint filter is a staged cascade (strict, relaxed, unfiltered)
// that stops at the first non-empty stage and records which stage
// succeeded so degraded results can carry a fallback message.
//
// Content scoring builds an "ideal listing" vector from the profile and
// ranks candidates by cosine similarity after joint standardization.
// Collaborative scoring averages the interaction counts of the five most
// similar peer users; a user with no history scores zero (cold start),
// and any failure in the stage degrades it to zero scores rather than
// aborting the call.
//
// # Concurrency
//
// Recommend calls are stateless pure computations over their inputs and
// may run in parallel without coordination. The only shared state is the
// ModelSource, read-only during a call and replaced atomically by the
// training pipeline on promotion.
package recommend
