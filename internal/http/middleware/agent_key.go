package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AgentKey guards mutating routes with a shared header. An empty required
// key disables the check (local development).
func AgentKey(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-Agent-Key")
		if key != required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid agent key",
				},
			})
			return
		}
		c.Next()
	}
}
