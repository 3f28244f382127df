// Package auth provides authentication and authorization functionality.
// This file defines the Data Transfer Objects used for the auth-related
// API requests and responses.
package auth

// RegisterRequest represents the registration request payload.
// Username and password are required; email and full name are optional.
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpassword123"`
	Email    string `json:"email,omitempty" example:"user@example.com"`
	FullName string `json:"full_name,omitempty" example:"New User"`
}

// TokenRequest represents the login payload exchanged for a bearer token.
type TokenRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpassword123"`
}

// UserResponse is the public view of a user, returned from registration,
// login and the current-user endpoint. It never carries the password hash.
type UserResponse struct {
	ID       string `json:"id,omitempty" example:"64f1c2a9e13d5a7b9c0d1e2f"`
	Username string `json:"username" example:"newuser"`
	Email    string `json:"email,omitempty" example:"user@example.com"`
	FullName string `json:"full_name,omitempty" example:"New User"`
}

// TokenResponse represents the authentication token response. The public
// user view is embedded alongside the token so clients don't need a second
// round trip after login.
type TokenResponse struct {
	AccessToken string       `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string       `json:"token_type" example:"bearer"`
	User        UserResponse `json:"user"`
}

// UsernameCheckResponse reports whether a username is already taken.
type UsernameCheckResponse struct {
	IsChosen bool `json:"is_chosen" example:"false"`
}
