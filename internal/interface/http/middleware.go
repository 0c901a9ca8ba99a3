package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// AuthMiddleware requires an authenticated principal. Session handling lives
// upstream; by the time a request reaches this service the session layer has
// resolved it to a user id in the X-User-ID header. Requests without one are
// rejected before any other work occurs.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated principal for this request.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
