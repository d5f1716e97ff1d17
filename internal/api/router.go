// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	gws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/metrics"
	"github.com/nestscout/nestscout/internal/mlpipeline"
	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
	"github.com/nestscout/nestscout/internal/websocket"
)

// Server holds the dependencies of every HTTP handler.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	engine   *recommend.Engine
	pipeline *mlpipeline.Pipeline
	hub      *websocket.Hub
	jwt      *JWTManager
	upgrader gws.Upgrader
	logger   zerolog.Logger
}

// NewServer wires handler dependencies. The JWT manager is only built
// when authentication is enabled.
func NewServer(cfg *config.Config, st *store.Store, engine *recommend.Engine, pipeline *mlpipeline.Pipeline, hub *websocket.Hub) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		pipeline: pipeline,
		hub:      hub,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Security.CORSOrigins),
		},
		logger: logging.Component("api"),
	}

	if !cfg.Security.AuthDisabled {
		manager, err := NewJWTManager(cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("auth setup: %w", err)
		}
		s.jwt = manager
	}
	return s, nil
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Upgrades bypass the rate limiter; one long-lived connection should
	// not consume the request budget.
	r.Get("/api/v1/ws", s.WebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			s.cfg.Security.RateLimitReqs,
			s.cfg.Security.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(s.rateLimited),
		))
		r.Use(prometheusMetrics)
		r.Use(requireAuth(s.jwt))

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", s.CreateListing)
			r.Get("/", s.ListListings)
			r.Get("/{id}", s.GetListing)
		})

		r.Post("/interactions", s.CreateInteraction)

		r.Route("/users/{id}/preferences", func(r chi.Router) {
			r.Put("/", s.PutPreferences)
			r.Get("/", s.GetPreferences)
		})

		r.Post("/recommendations", s.Recommend)
		r.Get("/recommendations/user/{id}", s.RecommendForUser)

		r.Route("/models", func(r chi.Router) {
			r.Post("/train", s.TriggerTraining)
			r.Get("/registry", s.ModelRegistry)
			r.Get("/status", s.ModelStatus)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.AnalyticsSummary)
			r.Get("/interactions/daily", s.AnalyticsDailyInteractions)
			r.Get("/top-listings", s.AnalyticsTopListings)
		})

		r.Post("/seed", s.SeedData)
	})

	return r
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path
	metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
	respondError(w, r, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "rate limit exceeded", nil)
}

// originChecker allows websocket upgrades from the configured CORS
// origins, with "*" accepting everything.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		if wildcard {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
