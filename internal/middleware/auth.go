package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-chat-service/internal/auth"
)

// RequireSession resolves the caller's session via the auth service and
// aborts with 401 when none exists. A failure reaching the auth service is an
// outage, not a rejection, and aborts with 502. The user id lands in the
// request context under "userID".
func RequireSession(sessions auth.SessionClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.GetSession(c.Request.Context(), c.Request.Header)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "session verification unavailable"})
			return
		}

		c.Set("userID", session.UserID)
		c.Next()
	}
}
