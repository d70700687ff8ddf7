package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-studio/backend/internal/services"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "atelier_session"

// AuthConfig carries what the admin auth middleware needs.
type AuthConfig struct {
	AuthService *services.AuthService
	// AdminAPIKey, when non-empty, allows header-based access via X-API-Key.
	AdminAPIKey string
}

// AdminAuth guards admin endpoints. A request passes with either a valid
// session token (cookie or Authorization bearer) or the static admin API
// key in X-API-Key.
func AdminAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminAPIKey != "" {
			key := c.GetHeader("X-API-Key")
			if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.AdminAPIKey)) == 1 {
				c.Set("role", "admin")
				c.Next()
				return
			}
		}

		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}
		if cfg.AuthService == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		claims, err := cfg.AuthService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the request context carries the role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("role"); !ok || v != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
