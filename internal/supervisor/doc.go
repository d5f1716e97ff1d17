// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package supervisor wires the long-running services into a suture
// supervision tree: the websocket hub and training scheduler in a
// background layer, the HTTP server in its own layer. A crashing
// service is restarted with exponential backoff instead of taking the
// process down.
package supervisor
