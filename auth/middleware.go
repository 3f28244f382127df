// Package auth, as part of the authentication module.
// This file defines the bearer-token middleware that guards the
// authenticated endpoints. It extracts the token from the Authorization
// header, runs it through the token service, and puts the resolved user in
// the request context for the downstream handler.
package auth

import (
	"net/http"
	"strings"

	"github.com/user/blogapi-go/apperror"
)

// RequireUser returns middleware that rejects requests without a valid
// bearer token. Rejections carry a WWW-Authenticate challenge so clients
// know to re-authenticate. The token subject is resolved against the user
// store on every request; there is no per-request caching.
func RequireUser(service *AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			user, err := service.ValidateToken(r.Context(), tokenString)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer {token}"
// header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperror.NewAuthError("authorization header is missing", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.NewAuthError("authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}
