// Package server assembles the HTTP router: middleware chain, API
// routes, metrics endpoint, and the JSON 404 contract.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/galaxyfolio/backend/internal/config"
	"github.com/galaxyfolio/backend/internal/contact"
	"github.com/galaxyfolio/backend/internal/health"
	"github.com/galaxyfolio/backend/internal/metrics"
	"github.com/galaxyfolio/backend/internal/middleware"
)

// maxBodyBytes caps the request body; a contact submission is tiny
const maxBodyBytes = 1 << 20

// NewRouter builds the chi router with the full middleware chain
func NewRouter(cfg *config.Config, log *slog.Logger, contactHandler *contact.Handler, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(metrics.Middleware)
	r.Use(limitBody)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORS.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		health.RegisterRoutes(r, healthHandler)
		contact.RegisterRoutes(r, contactHandler)
	})

	r.Handle("/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Endpoint not found",
		})
	})

	return r
}

// limitBody bounds the request body size before any decoding happens
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
