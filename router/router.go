// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/handlers"
	"github.com/danielhkuo/pollbox/metrics"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/store"
)

// requestTimeout bounds every handler
const requestTimeout = 30 * time.Second

// NewRouter wires every endpoint. m must not be nil; dirty may be.
func NewRouter(db *store.PollDatabase, cfg cliparse.Config, m *metrics.Metrics, dirty handlers.DirtyMarker) *chi.Mux {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.WithLogging(m))
	r.Use(middleware.CORS)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db, m, dirty)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
			Status: "ok",
			Polls:  db.Len(),
		})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Polls
	r.Post("/polls", pollHandler.CreatePoll)
	r.Get("/polls/{id}", pollHandler.GetPoll)
	r.Get("/polls/{id}/results", pollHandler.GetResults)
	r.With(middleware.RateLimit(cfg.VoteRate, cfg.VoteBurst, cfg.TrustProxy, m)).
		Post("/polls/{id}/votes", pollHandler.SubmitVote)

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollbox API v1"))
	})

	return r
}
