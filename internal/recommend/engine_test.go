// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// mockModelSource implements ModelSource for testing.
type mockModelSource struct {
	scaler  ScalerParams
	hasLive bool
	version string
}

func (m *mockModelSource) CurrentScaler() (ScalerParams, bool) {
	return m.scaler, m.hasLive
}

func (m *mockModelSource) CurrentVersion() string {
	return m.version
}

func sampleListings() []Listing {
	return []Listing{
		{ID: 1, Price: 100000, Bedrooms: 2, Bathrooms: 1, Sqft: 1000, Location: "New York"},
		{ID: 2, Price: 200000, Bedrooms: 3, Bathrooms: 2, Sqft: 1500, Location: "Los Angeles"},
		{ID: 3, Price: 300000, Bedrooms: 4, Bathrooms: 3, Sqft: 2000, Location: "Chicago"},
		{ID: 4, Price: 150000, Bedrooms: 2, Bathrooms: 1, Sqft: 1100, Location: "New York Suburb"},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func resultIDs(resp *Response) map[int]bool {
	ids := make(map[int]bool, len(resp.Items))
	for _, item := range resp.Items {
		ids[item.Listing.ID] = true
	}
	return ids
}

func TestRecommendStrictPriceAndBedrooms(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Recommend(Request{
		Profile: Profile{
			MinPrice:    fptr(150000),
			MaxPrice:    fptr(250000),
			MinBedrooms: iptr(2),
		},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Items))
	}
	ids := resultIDs(resp)
	if !ids[2] || !ids[4] {
		t.Errorf("expected listings {2, 4}, got %v", ids)
	}
	if resp.Stage != "strict" {
		t.Errorf("expected strict stage, got %q", resp.Stage)
	}
	for _, item := range resp.Items {
		if item.CollabMatch != 0 {
			t.Errorf("listing %d: expected zero collab match without interactions, got %v",
				item.Listing.ID, item.CollabMatch)
		}
		if item.FallbackMessage != "" {
			t.Errorf("listing %d: unexpected fallback message %q", item.Listing.ID, item.FallbackMessage)
		}
	}
}

func TestRecommendPreferredLocationOnly(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Recommend(Request{
		Profile:  Profile{PreferredLocations: []string{"New York"}},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Items))
	}
	ids := resultIDs(resp)
	if !ids[1] || !ids[4] {
		t.Errorf("expected listings {1, 4}, got %v", ids)
	}
}

func TestRecommendLegacySingleLocation(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Recommend(Request{
		Profile:  Profile{PreferredLocation: "new york"},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	ids := resultIDs(resp)
	if len(ids) != 2 || !ids[1] || !ids[4] {
		t.Errorf("expected listings {1, 4} for legacy location field, got %v", ids)
	}
}

func TestRecommendEmptyInputs(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty profile", Request{Profile: Profile{}, Listings: sampleListings()}},
		{"empty inventory", Request{
			Profile:  Profile{MinPrice: fptr(150000), MaxPrice: fptr(250000)},
			Listings: nil,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := engine.Recommend(tt.req)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if len(resp.Items) != 0 {
				t.Errorf("expected empty result, got %d items", len(resp.Items))
			}
		})
	}
}

func TestRecommendScoresInUnitRange(t *testing.T) {
	engine := newTestEngine(t)

	lid := 2
	events := []Event{
		{UserID: 7, ListingID: &lid, Kind: EventClick},
		{UserID: 8, ListingID: &lid, Kind: EventSave},
		{UserID: 8, ListingID: iptr(4), Kind: EventClick},
		{UserID: 9, ListingID: iptr(4), Kind: EventClick},
	}

	resp, err := engine.Recommend(Request{
		Profile: Profile{
			UserID:      iptr(7),
			MinPrice:    fptr(50000),
			MaxPrice:    fptr(400000),
			MinBedrooms: iptr(1),
		},
		Listings: sampleListings(),
		Events:   events,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, item := range resp.Items {
		if item.Score < 0 || item.Score > 1 {
			t.Errorf("listing %d: score %v out of [0,1]", item.Listing.ID, item.Score)
		}
		if item.ContentMatch < 0 || item.ContentMatch > 1 {
			t.Errorf("listing %d: content match %v out of [0,1]", item.Listing.ID, item.ContentMatch)
		}
		if item.CollabMatch < 0 || item.CollabMatch > 1 {
			t.Errorf("listing %d: collab match %v out of [0,1]", item.Listing.ID, item.CollabMatch)
		}
	}
}

func TestRecommendSortedDescendingAndBounded(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Recommend(Request{
		Profile:  Profile{MinBedrooms: iptr(1)},
		Listings: sampleListings(),
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Items) > 2 {
		t.Fatalf("limit not honored: got %d items", len(resp.Items))
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].Score > resp.Items[i-1].Score {
			t.Errorf("results not sorted descending at index %d", i)
		}
	}
}

func TestRecommendRelaxedFallback(t *testing.T) {
	engine := newTestEngine(t)

	// Lower bound excludes everything; relaxed keeps price <= max.
	resp, err := engine.Recommend(Request{
		Profile: Profile{
			MinPrice:    fptr(500000),
			MaxPrice:    fptr(600000),
			MinBedrooms: iptr(2),
		},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Stage != "relaxed" {
		t.Fatalf("expected relaxed stage, got %q", resp.Stage)
	}
	if len(resp.Items) == 0 {
		t.Fatal("expected relaxed results")
	}
	for _, item := range resp.Items {
		if item.FallbackMessage == "" {
			t.Errorf("listing %d: relaxed result missing fallback message", item.Listing.ID)
		}
	}
}

func TestRecommendUnfilteredFallback(t *testing.T) {
	engine := newTestEngine(t)

	// Nothing satisfies even the relaxed stage.
	resp, err := engine.Recommend(Request{
		Profile: Profile{
			MaxPrice:    fptr(50000),
			MinBedrooms: iptr(10),
		},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Stage != "unfiltered" {
		t.Fatalf("expected unfiltered stage, got %q", resp.Stage)
	}
	if len(resp.Items) != len(sampleListings()) {
		t.Errorf("expected full inventory, got %d items", len(resp.Items))
	}
	for _, item := range resp.Items {
		if item.FallbackMessage != StageUnfiltered.FallbackMessage() {
			t.Errorf("listing %d: expected unfiltered fallback message, got %q",
				item.Listing.ID, item.FallbackMessage)
		}
	}
}

func TestRecommendColdStartUser(t *testing.T) {
	engine := newTestEngine(t)

	// Interactions exist, but none for user 99.
	events := []Event{
		{UserID: 1, ListingID: iptr(2), Kind: EventClick},
		{UserID: 2, ListingID: iptr(2), Kind: EventSave},
	}

	resp, err := engine.Recommend(Request{
		Profile:  Profile{UserID: iptr(99), MinBedrooms: iptr(1)},
		Listings: sampleListings(),
		Events:   events,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, item := range resp.Items {
		if item.CollabMatch != 0 {
			t.Errorf("listing %d: cold start user should score zero collab, got %v",
				item.Listing.ID, item.CollabMatch)
		}
	}
}

func TestRecommendIdempotent(t *testing.T) {
	engine := newTestEngine(t)

	req := Request{
		Profile: Profile{
			UserID:      iptr(7),
			MinPrice:    fptr(100000),
			MaxPrice:    fptr(300000),
			MinBedrooms: iptr(2),
		},
		Listings:  sampleListings(),
		Events:    []Event{{UserID: 7, ListingID: iptr(2), Kind: EventClick}},
		RequestID: "fixed",
	}

	first, err := engine.Recommend(req)
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	second, err := engine.Recommend(req)
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}

	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Error("identical requests produced different results")
	}
}

func TestRecommendUsesPersistedScaler(t *testing.T) {
	cfg := DefaultConfig()
	engine, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ms := &mockModelSource{
		scaler: ScalerParams{
			Mean: []float64{200000, 2.5, 2, 1500, 150, 1.2},
			Std:  []float64{80000, 1, 0.8, 400, 40, 0.5},
		},
		hasLive: true,
		version: "v20260101_000000",
	}
	engine.SetModelSource(ms)

	resp, err := engine.Recommend(Request{
		Profile:  Profile{MinPrice: fptr(100000), MaxPrice: fptr(300000)},
		Listings: sampleListings(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Metadata.ModelVersion != "v20260101_000000" {
		t.Errorf("expected live model version in metadata, got %q", resp.Metadata.ModelVersion)
	}
	for _, item := range resp.Items {
		if item.Score < 0 || item.Score > 1 {
			t.Errorf("listing %d: score %v out of [0,1] with persisted scaler", item.Listing.ID, item.Score)
		}
	}
}

func TestRecommendDefaultLimit(t *testing.T) {
	engine := newTestEngine(t)

	listings := make([]Listing, 0, 30)
	for i := 1; i <= 30; i++ {
		listings = append(listings, Listing{
			ID: i, Price: float64(100000 + i*1000), Bedrooms: 2, Bathrooms: 1,
			Sqft: 1000, Location: "Springfield",
		})
	}

	resp, err := engine.Recommend(Request{
		Profile:  Profile{MinBedrooms: iptr(1)},
		Listings: listings,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Items) != DefaultConfig().DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultConfig().DefaultLimit, len(resp.Items))
	}
}
