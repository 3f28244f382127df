// Package auth is responsible for handling authentication and authorization
// logic. This file holds the AuthService: credential verification, token
// issuance and token validation. It is the sole gate every authenticated
// endpoint passes through.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/config"
)

// AuthService provides authentication-related services. Dependencies (the
// user store and auth configuration) are injected via the constructor; the
// service itself is stateless.
type AuthService struct {
	store      UserStore
	authConfig config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, authConfig config.AuthConfig) *AuthService {
	return &AuthService{
		store:      store,
		authConfig: authConfig,
	}
}

// credentialsError is the single outcome for every token validation
// failure. Collapsing the causes avoids telling an attacker which part of a
// forged token was rejected.
func credentialsError(err error) *apperror.AppError {
	return apperror.NewAuthError("could not validate credentials", err)
}

// Register creates a new user with a bcrypt-hashed password and returns it
// with the store-generated id populated. A taken username yields a
// ConflictError. The check-then-insert here can race with a concurrent
// registration; the unique index behind UserStore.Insert settles the race.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	_, err := s.store.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, apperror.NewConflictError("username already exists", nil)
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	// bcrypt is a salted, adaptive hashing scheme; verification later is
	// constant-time with respect to the hash comparison.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: string(hashedPassword),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UsernameTaken reports whether a username already resolves to a stored
// user. Read-only, no side effects.
func (s *AuthService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Authenticate verifies a username/password pair. An absent user and a
// wrong password both yield the same AuthError, so callers can't probe
// which usernames exist through the login endpoint.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("incorrect username or password", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperror.NewAuthError("incorrect username or password", nil)
	}
	return user, nil
}

// IssueToken produces a signed bearer token whose payload carries
// subject=username and an absolute expiration of now plus the configured
// lifetime. Tokens are stateless: nothing is persisted, and expiry is the
// only invalidation.
func (s *AuthService) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.authConfig.TokenDuration)),
	}

	method := jwt.GetSigningMethod(s.authConfig.SigningAlgorithm)
	if method == nil {
		return "", apperror.NewConfigError(fmt.Sprintf("unknown signing algorithm %q", s.authConfig.SigningAlgorithm), nil)
	}

	token := jwt.NewWithClaims(method, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken decodes and verifies a bearer token and resolves the
// subject back to a stored user. Every failure mode — bad signature,
// malformed token, expiry, missing subject, or a subject that no longer
// exists — collapses to the same AuthError.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, credentialsError(err)
	}
	if !token.Valid {
		return nil, credentialsError(nil)
	}
	if claims.Subject == "" {
		return nil, credentialsError(nil)
	}

	user, err := s.store.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if apperror.IsNotFound(err) {
			// The subject was deleted after the token was issued.
			return nil, credentialsError(nil)
		}
		return nil, err
	}
	return user, nil
}
