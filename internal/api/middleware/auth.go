package middleware

import (
	"net/http"
	"strings"

	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

const capabilitiesKey = "capabilities"

// AuthMiddleware is a Gin middleware for JWT authentication of API requests
// It checks for the presence and validity of a JWT token in the Authorization header
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Resolve the capability flags once; handlers and services read these
		// instead of the raw claims
		caps := service.CapabilitiesFromClaims(claims)
		c.Set(capabilitiesKey, caps)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// GetCapabilities returns the flags AuthMiddleware resolved for this request.
func GetCapabilities(c *gin.Context) (service.Capabilities, bool) {
	v, exists := c.Get(capabilitiesKey)
	if !exists {
		return service.Capabilities{}, false
	}
	caps, ok := v.(service.Capabilities)
	return caps, ok
}

// RequirePremium blocks non-premium users from premium-gated routes.
func RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := GetCapabilities(c)
		if !ok || !caps.Premium {
			c.JSON(http.StatusForbidden, gin.H{"error": "premium subscription required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCreator blocks users without a creator (or admin) role.
func RequireCreator() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := GetCapabilities(c)
		if !ok || !caps.Creator {
			c.JSON(http.StatusForbidden, gin.H{"error": "creator account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin blocks everyone but admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := GetCapabilities(c)
		if !ok || !caps.Admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
