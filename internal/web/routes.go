package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/mediasort/mediasort/internal/web/handlers"
)

func (s *Server) setupRoutes(h *handlers.Handler) {
	// Health check (no state required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/reload", h.Reload)

		r.Get("/sets", h.ListSets)
		r.Get("/sets/{id}", h.GetSet)
		r.Get("/sets/{id}/preview", h.PreviewSet)
		r.Post("/sets/{action}", h.MoveItems)

		r.Get("/items", h.ListItems)
		r.Post("/detach", h.Detach)

		r.Get("/suggestions", h.Suggestions)
		r.Post("/suggestions", h.AddSuggestion)
	})
}
