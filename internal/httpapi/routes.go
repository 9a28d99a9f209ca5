package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deveshc20/cricket-auction/internal/health"
)

// Routes assembles the operator API router.
func Routes(h *Handlers, hc *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", hc.Liveness())
	r.Get("/readyz", hc.Readiness())

	r.Route("/api", func(r chi.Router) {
		r.Post("/roster", h.UploadRoster)
		r.Post("/teams", h.ConfigureTeams)

		r.Route("/auction", func(r chi.Router) {
			r.Post("/draw", h.Draw)
			r.Post("/sold", h.Sold)
			r.Post("/unsold", h.Unsold)
			r.Post("/corrections", h.Correct)
			r.Post("/undo", h.Undo)
			r.Post("/restart", h.Restart)
		})

		r.Get("/session", h.GetSession)
		r.Delete("/session", h.ClearSession)
		r.Get("/events", h.ListEvents)
		r.Get("/export", h.Export)
	})

	return r
}
