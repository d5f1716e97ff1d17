// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package store

import (
	"context"
	"testing"
)

func TestSeedPopulatesStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	result, err := s.Seed(ctx, 42, false)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if result.Skipped {
		t.Fatal("first seed pass must not be skipped")
	}
	if result.Listings != 30 || result.Users != 5 || result.Events != 50 {
		t.Errorf("seed result = %+v, want 30 listings, 5 users, 50 events", result)
	}

	listings, err := s.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 30 {
		t.Fatalf("stored %d listings, want 30", len(listings))
	}

	// Prices follow the deterministic ramp.
	if listings[0].Price != 250000 {
		t.Errorf("listing 1 price = %v, want 250000", listings[0].Price)
	}
	if listings[29].Price != 1700000 {
		t.Errorf("listing 30 price = %v, want 1700000", listings[29].Price)
	}
	if listings[29].Title != "Premium Property 30" {
		t.Errorf("listing 30 title = %q", listings[29].Title)
	}

	for u := 1; u <= 5; u++ {
		p, err := s.GetProfile(ctx, u)
		if err != nil {
			t.Fatalf("GetProfile(%d): %v", u, err)
		}
		if p.MinPrice == nil || p.MaxPrice == nil || *p.MaxPrice <= *p.MinPrice {
			t.Errorf("user %d: implausible budget %+v", u, p)
		}
	}

	events, err := s.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range events {
		if e.ListingID == nil || *e.ListingID < 1 || *e.ListingID > 30 {
			t.Errorf("event %d references an unknown listing: %+v", i, e)
		}
		if !e.Kind.Valid() {
			t.Errorf("event %d has invalid kind %q", i, e.Kind)
		}
	}
}

func TestSeedIdempotentWithoutClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Seed(ctx, 42, false); err != nil {
		t.Fatal(err)
	}

	result, err := s.Seed(ctx, 42, false)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Skipped {
		t.Error("second seed pass over a full inventory should be skipped")
	}

	events, err := s.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 50 {
		t.Errorf("skipped pass must not add events, have %d", len(events))
	}
}

func TestSeedClearResets(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Seed(ctx, 42, false); err != nil {
		t.Fatal(err)
	}

	result, err := s.Seed(ctx, 7, true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped {
		t.Error("clearing pass must reseed")
	}

	events, err := s.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 50 {
		t.Errorf("reseed should leave exactly 50 events, have %d", len(events))
	}
}
