// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
)

// analyticsSummary is the engagement overview payload.
type analyticsSummary struct {
	TotalUsers        int     `json:"total_users"`
	TotalInteractions int     `json:"total_interactions"`
	ActiveToday       int     `json:"active_today"`
	ClickCount        int     `json:"click_count"`
	SaveCount         int     `json:"save_count"`
	SearchCount       int     `json:"search_count"`
	ClickThroughRate  float64 `json:"click_through_rate"`
}

// dailyInteractions is one day's event counts.
type dailyInteractions struct {
	Date     string `json:"date"`
	Clicks   int    `json:"clicks"`
	Saves    int    `json:"saves"`
	Searches int    `json:"searches"`
}

// topListing is one entry in the engagement ranking.
type topListing struct {
	ListingID  int    `json:"listing_id"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	Engagement int    `json:"engagement"`
}

// AnalyticsSummary handles GET /api/v1/analytics/summary. The
// click-through rate is clicks as a percentage of all interactions,
// rounded to one decimal; zero interactions yield 0.0 rather than NaN.
func (s *Server) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Events(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load interactions", err)
		return
	}
	totalUsers, err := s.store.CountProfiles(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to count users", err)
		return
	}

	today := time.Now().UTC().Format("2006-01-02")
	activeToday := make(map[int]struct{})
	summary := analyticsSummary{
		TotalUsers:        totalUsers,
		TotalInteractions: len(events),
	}
	for _, e := range events {
		switch e.Kind {
		case recommend.EventClick:
			summary.ClickCount++
		case recommend.EventSave:
			summary.SaveCount++
		case recommend.EventSearch:
			summary.SearchCount++
		}
		if e.Timestamp.UTC().Format("2006-01-02") == today {
			activeToday[e.UserID] = struct{}{}
		}
	}
	summary.ActiveToday = len(activeToday)
	if summary.TotalInteractions > 0 {
		ctr := float64(summary.ClickCount) / float64(summary.TotalInteractions) * 100
		summary.ClickThroughRate = math.Round(ctr*10) / 10
	}

	respondSuccess(w, r, http.StatusOK, summary)
}

// AnalyticsDailyInteractions handles GET /api/v1/analytics/interactions/daily.
// Returns the last seven days, oldest first, with a zero row for days
// that saw no activity.
func (s *Server) AnalyticsDailyInteractions(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Events(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load interactions", err)
		return
	}

	byDate := make(map[string]*dailyInteractions)
	days := make([]dailyInteractions, 7)
	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		date := now.AddDate(0, 0, i-6).Format("2006-01-02")
		days[i] = dailyInteractions{Date: date}
		byDate[date] = &days[i]
	}

	for _, e := range events {
		day, ok := byDate[e.Timestamp.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		switch e.Kind {
		case recommend.EventClick:
			day.Clicks++
		case recommend.EventSave:
			day.Saves++
		case recommend.EventSearch:
			day.Searches++
		}
	}

	respondSuccess(w, r, http.StatusOK, map[string]any{"days": days})
}

// AnalyticsTopListings handles GET /api/v1/analytics/top-listings.
// Ranks listings by total interaction count and returns the top ten.
// Events that reference a deleted listing are dropped from the ranking.
func (s *Server) AnalyticsTopListings(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Events(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load interactions", err)
		return
	}

	engagement := make(map[int]int)
	for _, e := range events {
		if e.ListingID == nil {
			continue
		}
		engagement[*e.ListingID]++
	}

	ids := make([]int, 0, len(engagement))
	for id := range engagement {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if engagement[ids[i]] != engagement[ids[j]] {
			return engagement[ids[i]] > engagement[ids[j]]
		}
		return ids[i] < ids[j]
	})

	top := make([]topListing, 0, 10)
	for _, id := range ids {
		if len(top) == 10 {
			break
		}
		listing, err := s.store.GetListing(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to load listing", err)
			return
		}
		top = append(top, topListing{
			ListingID:  id,
			Title:      listing.Title,
			Location:   listing.Location,
			Engagement: engagement[id],
		})
	}

	respondSuccess(w, r, http.StatusOK, map[string]any{"listings": top})
}
