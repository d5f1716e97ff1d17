// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/nestscout/nestscout/internal/recommend"
)

// Seed parameters. Prices follow a fixed ramp so reseeding the same
// store is idempotent at the inventory level.
const (
	seedListings        = 30
	seedUsers           = 5
	seedEventsPerUser   = 10
	seedBasePrice       = 200000
	seedPriceStep       = 50000
	seedMinimumListings = 30
)

var seedLocations = []string{
	"Downtown", "Suburbs", "Uptown", "Beachfront", "Mountain View",
}

// SeedResult reports what a seeding pass produced.
type SeedResult struct {
	Listings int  `json:"listings"`
	Users    int  `json:"users"`
	Events   int  `json:"events"`
	Skipped  bool `json:"skipped"`
}

// Seed populates the store with a demo inventory, preference profiles,
// and interaction history. When clear is false and the store already
// holds a full inventory the pass is a no-op; with clear set, existing
// data is dropped first.
func (s *Store) Seed(ctx context.Context, seed int64, clear bool) (*SeedResult, error) {
	if clear {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
	} else {
		count, err := s.CountListings(ctx)
		if err != nil {
			return nil, err
		}
		if count >= seedMinimumListings {
			return &SeedResult{Listings: count, Skipped: true}, nil
		}
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // demo data generation, not cryptographic

	for i := 1; i <= seedListings; i++ {
		location := seedLocations[rng.Intn(len(seedLocations))]
		l := recommend.Listing{
			ID:        i,
			Title:     fmt.Sprintf("Modern House %d", i),
			Price:     float64(seedBasePrice + i*seedPriceStep),
			Location:  location,
			Bedrooms:  float64(1 + rng.Intn(6)),
			Bathrooms: float64(1 + rng.Intn(4)),
			Sqft:      float64(1000 + rng.Intn(4001)),
		}
		if i > 25 {
			l.Title = fmt.Sprintf("Premium Property %d", i)
		}
		if err := s.PutListing(ctx, l); err != nil {
			return nil, err
		}
	}

	for u := 1; u <= seedUsers; u++ {
		uid := u
		minPrice := float64(50000 + rng.Intn(450001))
		maxPrice := float64(600000 + rng.Intn(2400001))
		minBeds := 1 + rng.Intn(3)
		profile := recommend.Profile{
			UserID:             &uid,
			MinPrice:           &minPrice,
			MaxPrice:           &maxPrice,
			MinBedrooms:        &minBeds,
			PreferredLocations: []string{seedLocations[rng.Intn(len(seedLocations))]},
		}
		if err := s.PutProfile(ctx, u, profile); err != nil {
			return nil, err
		}
	}

	kinds := []recommend.EventKind{recommend.EventClick, recommend.EventSave, recommend.EventSearch}
	eventCount := 0
	now := time.Now().UTC()
	for u := 1; u <= seedUsers; u++ {
		for i := 0; i < seedEventsPerUser; i++ {
			listingID := 1 + rng.Intn(seedListings)
			e := recommend.Event{
				UserID:    u,
				ListingID: &listingID,
				Kind:      kinds[rng.Intn(len(kinds))],
				Timestamp: now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
			}
			if err := s.AddEvent(ctx, e); err != nil {
				return nil, err
			}
			eventCount++
		}
	}

	s.logger.Info().
		Int("listings", seedListings).
		Int("users", seedUsers).
		Int("events", eventCount).
		Msg("store seeded")

	return &SeedResult{
		Listings: seedListings,
		Users:    seedUsers,
		Events:   eventCount,
	}, nil
}
