package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func GameRoutes(
	r *chi.Mux,
	gameHandler *handlers.GameHandler,
	bggHandler *handlers.BGGHandler,
	auth func(http.Handler) http.Handler,
	admin func(http.Handler) http.Handler,
) {
	r.Route("/api/v1/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGamesHandler)         // Catalog listing with filters
		r.Get("/search", gameHandler.SearchGamesHandler) // Name typeahead
		r.Get("/{bggId}", gameHandler.GetGameHandler)    // Game detail + similar games

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", gameHandler.CreateGameHandler)          // Manual catalog insert
			r.Post("/import", gameHandler.ImportGameHandler)    // Import from BGG
			r.Put("/{bggId}", gameHandler.UpdateGameHandler)    // Edit catalog entry
			r.Delete("/{bggId}", gameHandler.DeleteGameHandler) // Remove catalog entry
		})
	})

	r.Route("/api/v1/bgg", func(r chi.Router) {
		r.Use(auth, admin)
		r.Get("/search", bggHandler.SearchHandler) // BGG search proxy for the admin UI
	})
}
