// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package mlpipeline

import (
	"sync/atomic"

	"github.com/nestscout/nestscout/internal/recommend"
)

// LiveModel holds the artifact currently serving recommendations. Swaps
// are atomic pointer updates, so in-flight requests keep the artifact
// they started with while new requests see the promoted one.
type LiveModel struct {
	current atomic.Pointer[Artifact]
}

// Compile-time check that LiveModel feeds the serving engine.
var _ recommend.ModelSource = (*LiveModel)(nil)

// NewLiveModel returns an empty handle with no model loaded.
func NewLiveModel() *LiveModel {
	return &LiveModel{}
}

// Swap replaces the serving artifact.
func (m *LiveModel) Swap(a *Artifact) {
	m.current.Store(a)
}

// Current returns the serving artifact, or nil when none is loaded.
func (m *LiveModel) Current() *Artifact {
	return m.current.Load()
}

// CurrentScaler returns the scaler fitted at training time, when a
// model is loaded.
func (m *LiveModel) CurrentScaler() (recommend.ScalerParams, bool) {
	a := m.current.Load()
	if a == nil {
		return recommend.ScalerParams{}, false
	}
	return a.Scaler, true
}

// CurrentVersion returns the serving model's version tag, or "" when no
// model is loaded.
func (m *LiveModel) CurrentVersion() string {
	a := m.current.Load()
	if a == nil {
		return ""
	}
	return a.Version
}
