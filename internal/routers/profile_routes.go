package routers

import (
	"net/http"

	"boardcafe/web/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func ProfileRoutes(
	r *chi.Mux,
	profileHandler *handlers.ProfileHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	preferenceHandler *handlers.PreferenceHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", profileHandler.GetProfileHandler)                    // Own profile
		r.Put("/", profileHandler.UpdateProfileHandler)                 // Partial profile update
		r.Put("/party-status", profileHandler.UpdatePartyStatusHandler) // Toggle directory participation

		r.Get("/availability", availabilityHandler.GetAvailabilityHandler)    // Weekly availability
		r.Put("/availability", availabilityHandler.UpdateAvailabilityHandler) // Replace availability

		r.Get("/preferences", preferenceHandler.GetPreferencesHandler)    // Preferred games
		r.Put("/preferences", preferenceHandler.UpdatePreferencesHandler) // Replace preferred games
	})
}
