package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/token/validate", h.ValidateToken)
		r.Route("/recordings", func(r chi.Router) {
			r.Get("/", h.ListRecordings)
			r.Post("/{ticker}/start", h.StartRecording)
			r.Post("/{ticker}/stop", h.StopRecording)
		})
	})

	return r
}
