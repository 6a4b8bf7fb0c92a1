package middleware

import (
	"net/http"

	"talent-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractUserID narrows the user_id claim to a validated string key so
// downstream handlers can read it without re-checking the type.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			c.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userIDStr)
		c.Next()
	}
}
