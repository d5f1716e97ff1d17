// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package api exposes the HTTP surface: listing and interaction
// ingestion, user preferences, recommendation serving, training
// control, and the websocket event stream.
//
// Every JSON endpoint returns the APIResponse envelope. Routes under
// /api/v1 are rate limited per client IP and, unless auth is disabled,
// require a Bearer token signed with the configured JWT secret.
package api
