package handlers

import (
	"context"
	"net/http"

	"boardcafe/web/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsContextKey contextKey = "jwtClaims"

// AuthMiddleware rejects requests without a valid bearer token and
// stores the verified claims on the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthOptional attaches verified claims when a valid bearer token is
// present but never rejects the request. Public routes that behave
// differently for admins use it.
func AuthOptional(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := utils.VerifyToken(r, secret); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route on the token's admin flag. Must run after
// AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || !utils.IsAdminFromClaims(claims) {
			utils.JSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) jwt.MapClaims {
	claims, _ := r.Context().Value(claimsContextKey).(jwt.MapClaims)
	return claims
}

// currentUserID extracts the authenticated user's id; empty when the
// middleware did not run.
func currentUserID(r *http.Request) string {
	claims := claimsFrom(r)
	if claims == nil {
		return ""
	}
	id, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		return ""
	}
	return id
}
