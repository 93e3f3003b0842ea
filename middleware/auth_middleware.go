package middleware

import (
	"net/http"

	"socialbook/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID      = "user_id"
	CtxSessionID   = "session_id"
	CtxSessionUser = "session_user"
)

// AuthMiddleware resolves the session cookie into the current user. A
// missing cookie, a bad signature, an expired session and a destroyed
// session all yield the same 401 — callers cannot tell them apart.
func AuthMiddleware(sessions *auth.SessionManager, secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, err := auth.ParseSession(secret, cookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		user, err := sessions.Get(claims.SessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxSessionID, claims.SessionID)
		c.Set(CtxSessionUser, user)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user's ID from the context.
func CurrentUserID(c *gin.Context) uint64 {
	return c.GetUint64(CtxUserID)
}

// CurrentSessionID reads the session ID from the context.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

// CurrentSessionUser reads the session projection from the context.
func CurrentSessionUser(c *gin.Context) *auth.SessionUser {
	if v, ok := c.Get(CtxSessionUser); ok {
		if user, ok := v.(*auth.SessionUser); ok {
			return user
		}
	}
	return nil
}
