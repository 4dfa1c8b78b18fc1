package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func CommentRoutes(
	r *chi.Mux,
	commentHandler *handlers.CommentHandler,
	auth func(http.Handler) http.Handler,
	authOptional func(http.Handler) http.Handler,
	admin func(http.Handler) http.Handler,
) {
	r.Route("/api/v1/comments", func(r chi.Router) {
		r.Post("/", commentHandler.CreateCommentHandler) // Submit a comment (pending approval)

		r.Group(func(r chi.Router) {
			r.Use(authOptional)
			r.Get("/", commentHandler.ListCommentsHandler) // List comments (pending only for admins)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Put("/{id}", commentHandler.ModerateCommentHandler) // Approve or reject
		})
	})
}
