// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package store persists listings, interaction events, and preference
// profiles in BadgerDB.
//
// Values are JSON documents. Listing and profile keys embed the record
// ID; events are keyed by a monotonic sequence so a prefix scan returns
// them in insertion order. The store implements the training pipeline's
// data provider interface, so the same records feed both serving and
// retraining.
package store
