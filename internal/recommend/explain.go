// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"fmt"
	"strings"
)

// explainMatch evaluates the profile criteria against one listing and
// composes a reason string from up to two matched criteria. Pure and
// side-effect free.
func explainMatch(p *Profile, l Listing) Explanation {
	var matches []string

	minPrice, maxPrice := p.BudgetBounds()
	if l.Price >= minPrice && l.Price <= maxPrice {
		matches = append(matches, "Fits your budget")
	}

	if int(l.Bedrooms) >= p.MinBeds() {
		matches = append(matches, fmt.Sprintf("%d+ Bedrooms", int(l.Bedrooms)))
	}

	if locs := p.Locations(); len(locs) > 0 {
		pref := strings.ToLower(locs[0])
		if strings.Contains(strings.ToLower(l.Location), pref) {
			matches = append(matches, "Preferred location")
		}
	}

	reason := "Fits your search criteria"
	if len(matches) > 0 {
		top := matches
		if len(top) > 2 {
			top = top[:2]
		}
		reason = "Matches: " + strings.Join(top, ", ")
	}

	return Explanation{Reason: reason, TopMatches: matches}
}
