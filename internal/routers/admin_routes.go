package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func AdminRoutes(
	r *chi.Mux,
	adminHandler *handlers.AdminHandler,
	auth func(http.Handler) http.Handler,
	admin func(http.Handler) http.Handler,
) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(auth, admin)
		r.Get("/settings/inactive-days", adminHandler.GetInactiveDaysHandler)    // Current inactivity threshold
		r.Put("/settings/inactive-days", adminHandler.UpdateInactiveDaysHandler) // Update threshold (1-365)
		r.Post("/cleanup", adminHandler.CleanupHandler)                          // Manual inactivity sweep
		r.Delete("/users/{id}", adminHandler.RemoveUserHandler)                  // Remove an account
	})
}

func CronRoutes(r *chi.Mux, cronHandler *handlers.CronHandler) {
	r.Route("/api/cron", func(r chi.Router) {
		r.Get("/cleanup", cronHandler.CleanupHandler) // Scheduled sweep (X-Cron-Secret)
	})
}
