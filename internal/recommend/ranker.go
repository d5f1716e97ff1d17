// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"math"
	"sort"
)

// rankHybrid fuses content and collaborative scores, sorts descending
// with a stable tie-break preserving candidate order, and truncates to
// the limit. Component scores are clipped into [0, 1] and rounded to 4
// decimal places for output stability.
func rankHybrid(candidates []Listing, content, collab []float64, contentWeight, collabWeight float64, limit int) []ScoredListing {
	items := make([]ScoredListing, len(candidates))
	for i, l := range candidates {
		final := clip01(contentWeight*content[i] + collabWeight*collab[i])
		items[i] = ScoredListing{
			Listing:      l,
			Score:        final,
			ContentMatch: round4(clip01(content[i])),
			CollabMatch:  round4(clip01(collab[i])),
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// clip01 clamps a score into [0, 1].
func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// round4 rounds to 4 decimal places.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
