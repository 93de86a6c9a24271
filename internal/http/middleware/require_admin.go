package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates every admin API route: 401 without a session, 403 for a
// signed-in account without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}

		if !u.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
