// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/mlpipeline"
	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/websocket"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	cfg := config.Default()
	cfg.Security.AuthDisabled = true
	cfg.Store.InMemory = true
	cfg.Training.RegistryPath = filepath.Join(t.TempDir(), "registry.json")
	cfg.Training.ArtifactDir = t.TempDir()
	cfg.Training.MinInteractions = 5

	logger := zerolog.Nop()

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	live := mlpipeline.NewLiveModel()
	pipeline, err := mlpipeline.NewPipeline(cfg.Training, st, live, logger)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	engine.SetModelSource(live)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Serve(ctx) }()
	t.Cleanup(cancel)

	srv, err := NewServer(cfg, st, engine, pipeline, hub)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func seedListing(t *testing.T, h http.Handler, id int, price float64, bedrooms float64, location string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/v1/listings", map[string]interface{}{
		"id":        id,
		"title":     "Test Home",
		"price":     price,
		"bedrooms":  bedrooms,
		"bathrooms": 2,
		"sqft":      1400,
		"location":  location,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed listing %d: status %d: %s", id, rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Error("health should succeed")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["status"] != "ok" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestCreateAndGetListing(t *testing.T) {
	_, h := newTestServer(t)

	seedListing(t, h, 7, 250000, 3, "Downtown")

	rec := doJSON(t, h, http.MethodGet, "/api/v1/listings/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["price"].(float64) != 250000 {
		t.Errorf("price = %v", data["price"])
	}
}

func TestGetListingNotFound(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/listings/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestCreateListingValidation(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/listings", map[string]interface{}{
		"id":    0,
		"price": -5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestListListings(t *testing.T) {
	_, h := newTestServer(t)

	seedListing(t, h, 1, 200000, 2, "Downtown")
	seedListing(t, h, 2, 300000, 3, "Suburbs")

	rec := doJSON(t, h, http.MethodGet, "/api/v1/listings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["count"].(float64) != 2 {
		t.Errorf("count = %v", data["count"])
	}
}

func TestCreateInteraction(t *testing.T) {
	_, h := newTestServer(t)
	seedListing(t, h, 1, 200000, 2, "Downtown")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"user_id":    1,
		"listing_id": 1,
		"event_type": "save",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateInteractionUnknownListing(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"user_id":    1,
		"listing_id": 42,
		"event_type": "click",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateInteractionRequiresListingForClick(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"user_id":    1,
		"event_type": "click",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchInteractionWithoutListing(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"user_id":    1,
		"event_type": "search",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateInteractionBadEventType(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"user_id":    1,
		"event_type": "purchase",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/api/v1/users/3/preferences", map[string]interface{}{
		"min_price":           100000,
		"max_price":           400000,
		"min_bedrooms":        2,
		"preferred_locations": []string{"Downtown"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/users/3/preferences", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["max_price"].(float64) != 400000 {
		t.Errorf("max_price = %v", data["max_price"])
	}
	if data["user_id"].(float64) != 3 {
		t.Errorf("user_id = %v, path id must win", data["user_id"])
	}
}

func TestPreferencesNotFound(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/users/9/preferences", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPreferencesInvertedBudget(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/api/v1/users/3/preferences", map[string]interface{}{
		"min_price": 500000,
		"max_price": 100000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommendInlineProfile(t *testing.T) {
	_, h := newTestServer(t)
	seedListing(t, h, 1, 200000, 3, "Downtown")
	seedListing(t, h, 2, 900000, 1, "Suburbs")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"profile": map[string]interface{}{
			"min_price":    100000,
			"max_price":    400000,
			"min_bedrooms": 2,
		},
		"limit": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("got %d items, want only the in-budget listing", len(items))
	}
	first := items[0].(map[string]interface{})
	listing := first["listing"].(map[string]interface{})
	if listing["id"].(float64) != 1 {
		t.Errorf("top listing id = %v", listing["id"])
	}
}

func TestRecommendStoredProfile(t *testing.T) {
	_, h := newTestServer(t)
	seedListing(t, h, 1, 200000, 3, "Downtown")

	rec := doJSON(t, h, http.MethodPut, "/api/v1/users/5/preferences", map[string]interface{}{
		"max_price": 300000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put prefs: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"user_id": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommendForUserRoute(t *testing.T) {
	_, h := newTestServer(t)
	seedListing(t, h, 1, 200000, 3, "Downtown")
	seedListing(t, h, 2, 250000, 2, "Suburbs")

	rec := doJSON(t, h, http.MethodPut, "/api/v1/users/4/preferences", map[string]interface{}{
		"max_price": 300000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put prefs: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/recommendations/user/4?limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("limit=1 must cap items, got %d", len(items))
	}
}

func TestRecommendForUserBadLimit(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/recommendations/user/4?limit=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRecommendNeedsProfileOrUser(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommendUnknownUserFallsBack(t *testing.T) {
	_, h := newTestServer(t)
	seedListing(t, h, 1, 200000, 3, "Downtown")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"user_id": 77,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown user should still get popularity ranking, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestModelStatusIdle(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/models/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["state"] != "idle" {
		t.Errorf("state = %v", data["state"])
	}
}

func TestModelRegistryEmpty(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/models/registry", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["production"] != "" {
		t.Errorf("production = %v, want empty", data["production"])
	}
}

func TestTriggerTrainingNotEnoughData(t *testing.T) {
	srv, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/models/train", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	// The background run fails on the empty store and must unlock.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if srv.pipeline.Status().State == "idle" && srv.pipeline.Status().LastError != "" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("pipeline did not settle: %+v", srv.pipeline.Status())
}

func TestSeedEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/seed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["listings"].(float64) != 30 {
		t.Errorf("listings = %v", data["listings"])
	}

	// Second call without clear skips.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/seed", nil)
	resp = decodeEnvelope(t, rec)
	data = resp.Data.(map[string]interface{})
	if data["skipped"] != true {
		t.Errorf("second seed should skip: %v", resp.Data)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
