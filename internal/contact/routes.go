package contact

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the contact endpoint on the given router.
// The router is expected to be mounted under /api.
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Post("/contact", handler.Submit)
}
