package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func PlayerRoutes(r *chi.Mux, playerHandler *handlers.PlayerHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/players", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", playerHandler.ListPlayersHandler) // Player discovery directory
	})
}
