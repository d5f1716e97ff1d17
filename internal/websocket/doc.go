// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package websocket pushes live events to connected clients, most
// importantly model_promoted notifications emitted when the training
// pipeline swaps a new production model in.
//
// The Hub runs as a supervised service: register and unregister events
// take priority over broadcasts, broadcasts iterate clients in a stable
// ID order, and a client whose send buffer is full is dropped rather
// than allowed to stall the hub.
package websocket
