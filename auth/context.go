// Package auth, as part of the authentication module.
// This file holds the context plumbing between the bearer-token middleware
// and the handlers: the middleware resolves the caller and stores the user
// in the request context, and handlers read it back from there.
package auth

import (
	"context"
)

// contextKey is a custom type for context keys. Using an unexported type
// prevents collisions with keys set by other packages.
type contextKey string

const (
	userContextKey contextKey = "auth_user"
)

// NewContextWithUser returns a child context carrying the resolved caller
// identity.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from the context. The
// second return value is false when no user was stored, which means the
// handler ran without the auth middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
