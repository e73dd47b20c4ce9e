package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"llm-chat-service/internal/auth"
	"llm-chat-service/internal/mocks"
)

func setupAuthRouter(sessions auth.SessionClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return r
}

func TestRequireSessionSetsUserID(t *testing.T) {
	sessions := new(mocks.SessionClientMock)
	sessions.On("GetSession", mock.Anything, mock.Anything).
		Return(auth.Session{UserID: "u-7"}, nil).Once()
	router := setupAuthRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u-7")
	sessions.AssertExpectations(t)
}

func TestRequireSessionNoSession(t *testing.T) {
	sessions := new(mocks.SessionClientMock)
	sessions.On("GetSession", mock.Anything, mock.Anything).
		Return(auth.Session{}, auth.ErrNoSession).Once()
	router := setupAuthRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no active session")
}

func TestRequireSessionLookupFailure(t *testing.T) {
	sessions := new(mocks.SessionClientMock)
	sessions.On("GetSession", mock.Anything, mock.Anything).
		Return(auth.Session{}, assert.AnError).Once()
	router := setupAuthRouter(sessions)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// An unreachable auth service is an outage, not a credential rejection.
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "session verification unavailable")
}
