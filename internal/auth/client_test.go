package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessionForwardsCredentials(t *testing.T) {
	var gotCookie, gotAuthz string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/get-session", r.URL.Path)
		gotCookie = r.Header.Get("Cookie")
		gotAuthz = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u-1"},"session":{"id":"s-1"}}`))
	}))
	defer server.Close()

	client := NewHTTPSessionClient(server.URL)
	header := http.Header{}
	header.Set("Cookie", "better-auth.session_token=abc")
	header.Set("Authorization", "Bearer tok")

	session, err := client.GetSession(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.UserID)
	assert.Equal(t, "better-auth.session_token=abc", gotCookie)
	assert.Equal(t, "Bearer tok", gotAuthz)
}

func TestGetSessionNullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := NewHTTPSessionClient(server.URL)
	_, err := client.GetSession(context.Background(), http.Header{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGetSessionUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPSessionClient(server.URL)
	_, err := client.GetSession(context.Background(), http.Header{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGetSessionUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPSessionClient(server.URL)
	_, err := client.GetSession(context.Background(), http.Header{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
