package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoSession reports that the auth service found no valid session for the
// presented credentials.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated principal derived from request headers.
type Session struct {
	UserID string
}

// SessionClient verifies request credentials against the authentication
// service. The principal is re-derived on every request; decisions are never
// cached across requests.
type SessionClient interface {
	GetSession(ctx context.Context, header http.Header) (Session, error)
}

// HTTPSessionClient talks to the auth service's session introspection
// endpoint, forwarding the caller's cookie and bearer credentials.
type HTTPSessionClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSessionClient constructs a client for the given auth service base URL.
func NewHTTPSessionClient(baseURL string) *HTTPSessionClient {
	return &HTTPSessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type sessionResponse struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// GetSession resolves the session for the presented request headers.
func (c *HTTPSessionClient) GetSession(ctx context.Context, header http.Header) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		return Session{}, err
	}
	if cookie := header.Get("Cookie"); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if authz := header.Get("Authorization"); authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Session{}, ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("session lookup: unexpected status %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Session{}, err
	}
	if body.User.ID == "" {
		// The auth service answers 200 with a null body when unauthenticated.
		return Session{}, ErrNoSession
	}
	return Session{UserID: body.User.ID}, nil
}
