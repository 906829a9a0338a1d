package middleware

import (
	"errors"
	"net/http"
	"strings"

	"expense_tracker/internal/auth"

	"github.com/gin-gonic/gin"
)

// PublicPaths are reachable without a session. Everything else goes
// through the gateway.
var PublicPaths = []string{
	"/auth/login",
	"/auth/register",
	"/login",
	"/register",
	"/healthz",
	"/metrics",
}

// SessionGateway verifies the session cookie on every request outside the
// allow-list and injects the authenticated identity into the context.
// API requests get a 401 JSON body; page requests are redirected to /login.
// "Not authenticated" and "Session expired" differ in message only, never
// in control flow.
func SessionGateway(issuer *auth.Issuer, publicPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, p := range publicPaths {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		token, err := c.Cookie(auth.SessionCookie)
		if err != nil || token == "" {
			reject(c, "Not authenticated")
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionExpired) {
				reject(c, "Session expired")
			} else {
				reject(c, "Invalid session")
			}
			return
		}

		c.Set(auth.UserIDKey, claims.UserID)
		c.Set(auth.UsernameKey, claims.Username)
		c.Next()
	}
}

func reject(c *gin.Context, message string) {
	if isAPIPath(c.Request.URL.Path) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	} else {
		c.Redirect(http.StatusFound, "/login")
	}
	c.Abort()
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/auth")
}
