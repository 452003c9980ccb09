package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/luizFelippedev/portfolio-backend/internal/auth"
	"github.com/luizFelippedev/portfolio-backend/internal/ratelimit"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

const identityKey = "identity"

// RequireAuth validates the Authorization bearer token and stores the
// identity in the request context.
func RequireAuth(verifier *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireAdmin rejects non-admin identities. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identityFrom(c)
		if ident == nil || ident.Role != realtime.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// RateLimit applies the per-key limiter keyed by client IP.
func RateLimit(limiter *ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) *realtime.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*realtime.Identity)
	return ident
}
