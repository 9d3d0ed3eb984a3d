package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware reads the caller identity injected by the upstream auth
// layer (gateway or sidecar) into trusted headers. This service never sees
// credentials; requests without an identity are rejected.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("user_id", userID)
		if role := c.GetHeader("X-User-Role"); role != "" {
			c.Set("user_role", role)
		}

		c.Next()
	}
}
