// Package auth, as part of the authentication module.
// This file holds the HTTP handlers for the auth endpoints (register,
// username check, token exchange, current user) plus the shared JSON and
// error response helpers used across the application's handlers.
package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/user/blogapi-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user with a one-way hashed password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 200 {object} auth.UserResponse "User created successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Username already exists"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		// Only presence is validated; email and full name are optional.
		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, user.Public())
	}
}

// HandleCheckUsername godoc
// @Summary Username availability check
// @Description Reports whether a username is already taken.
// @Tags Auth
// @Produce json
// @Param username query string true "Username to check"
// @Success 200 {object} auth.UsernameCheckResponse
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/check-username [get]
func (h *Handlers) HandleCheckUsername() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")

		taken, err := h.service.UsernameTaken(r.Context(), username)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, UsernameCheckResponse{IsChosen: taken})
	}
}

// HandleToken godoc
// @Summary Exchange credentials for a bearer token
// @Description Verifies a username/password pair and issues a signed,
// @Description time-limited access token together with the public user view.
// @Tags Auth
// @Accept json
// @Produce json
// @Param tokenBody body auth.TokenRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse "Login successful, token provided"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/token [post]
func (h *Handlers) HandleToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		accessToken, err := h.service.IssueToken(user.Username)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: accessToken,
			TokenType:   "bearer",
			User:        user.Public(),
		})
	}
}

// HandleMe godoc
// @Summary Get the current user
// @Description Returns the public view of the authenticated caller.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /users/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
			return
		}

		writeJSON(w, http.StatusOK, user.Public())
	}
}

// writeJSON serializes data to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode response: %v", err)
		}
	}
}

// WriteError converts any error into the standardized error response.
// Errors that are not AppErrors (driver failures, programming errors) are
// wrapped as a generic internal failure so no internal detail reaches the
// caller. Authentication failures additionally carry a Bearer challenge.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		log.Printf("unexpected error on %s %s: %v", r.Method, r.URL.Path, err)
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.Type == apperror.AuthError {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// WriteJSON is the exported variant of writeJSON for use by the other
// feature packages' handlers.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}
