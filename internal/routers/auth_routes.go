package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler) // User registration
		r.Post("/login", authHandler.LoginHandler)       // User login
		r.Post("/logout", authHandler.LogoutHandler)     // Logout (client-side token drop)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", authHandler.MeHandler) // Current user
		})
	})
}
