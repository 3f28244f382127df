package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUser is a terminal handler recording the user the middleware resolved.
func echoUser(t *testing.T, got **User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok, "handler reached without user in context")
		*got = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser_ValidToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	var got *User
	handler := RequireUser(svc)(echoUser(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
}

func TestRequireUser_MissingHeader(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	handler := RequireUser(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Unauthorized responses carry the re-authentication challenge.
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRequireUser_BadScheme(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	handler := RequireUser(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_GarbageToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	handler := RequireUser(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
