// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import "strings"

// filterResult is the outcome of the constraint cascade: the surviving
// candidates and the stage that produced them.
type filterResult struct {
	listings []Listing
	stage    FilterStage
}

// applyConstraintCascade runs the staged hard-filter cascade over the
// candidate set, stopping at the first non-empty stage:
//
//  1. strict: budget, bedrooms, and location all hold
//  2. relaxed: drop location and the lower price bound
//  3. unfiltered: the full candidate set
//
// The caller is responsible for rejecting empty inputs before the
// cascade runs.
func applyConstraintCascade(p *Profile, listings []Listing) filterResult {
	if strict := filterStrict(p, listings); len(strict) > 0 {
		return filterResult{listings: strict, stage: StageStrict}
	}

	if relaxed := filterRelaxed(p, listings); len(relaxed) > 0 {
		return filterResult{listings: relaxed, stage: StageRelaxed}
	}

	return filterResult{listings: listings, stage: StageUnfiltered}
}

// filterStrict keeps listings satisfying every hard constraint.
func filterStrict(p *Profile, listings []Listing) []Listing {
	minPrice, maxPrice := p.BudgetBounds()
	minBeds := float64(p.MinBeds())
	locations := p.Locations()

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price < minPrice || l.Price > maxPrice {
			continue
		}
		if l.Bedrooms < minBeds {
			continue
		}
		if len(locations) > 0 && !matchesAnyLocation(l.Location, locations) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// filterRelaxed keeps the upper price bound and the bedroom minimum only.
func filterRelaxed(p *Profile, listings []Listing) []Listing {
	_, maxPrice := p.BudgetBounds()
	minBeds := float64(p.MinBeds())

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price > maxPrice {
			continue
		}
		if l.Bedrooms < minBeds {
			continue
		}
		out = append(out, l)
	}
	return out
}

// matchesAnyLocation reports whether the listing location contains any of
// the preferred-location substrings, case-insensitive and trimmed.
func matchesAnyLocation(location string, preferred []string) bool {
	loc := strings.ToLower(strings.TrimSpace(location))
	for _, p := range preferred {
		if strings.Contains(loc, strings.ToLower(strings.TrimSpace(p))) {
			return true
		}
	}
	return false
}
