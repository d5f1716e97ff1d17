// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package metrics provides Prometheus instrumentation for the API surface,
// the recommendation engine, the training pipeline, and the store.
//
// All collectors are registered with the default registry via promauto and
// exposed on /metrics by the HTTP router. Record helpers are preferred over
// direct collector access so label conventions stay in one place.
package metrics
