// Package health provides health, liveness, and readiness endpoints
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ProbeResponse is the body of the liveness/readiness probes
type ProbeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Handler serves health checks. The service has no backing stores to
// probe; readiness only flips during graceful shutdown.
type Handler struct {
	mu    sync.RWMutex
	ready bool
}

// NewHandler creates a health handler that starts ready
func NewHandler() *Handler {
	return &Handler{ready: true}
}

// SetReady sets the readiness state, flipped off during shutdown so
// load balancers stop routing new submissions here.
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Liveness handles GET /api/health/live
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, http.StatusOK, ProbeResponse{
		Success:   true,
		Message:   "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness handles GET /api/health/ready
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	ready := h.ready
	h.mu.RUnlock()

	status := http.StatusOK
	message := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		message = "shutting down"
	}
	writeProbe(w, status, ProbeResponse{
		Success:   ready,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes registers the health endpoints on the given router.
// The router is expected to be mounted under /api.
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Get("/health", handler.Health)
	r.Get("/health/live", handler.Liveness)
	r.Get("/health/ready", handler.Readiness)
}

func writeProbe(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
