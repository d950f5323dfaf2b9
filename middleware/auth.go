package middleware

import (
	"net/http"
	"strings"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the caller's bearer token and stashes both the
// user id and the raw token on the request. The token rides the request
// context so that upstream calls are made with the caller's own credentials.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Request = c.Request.WithContext(gateway.WithToken(c.Request.Context(), tokenString))
		c.Next()
	}
}
