package middleware

import (
	"net/http"                // HTTP status codes
	"strings"                 // String manipulation
	"gamerash/internal/utils" // Session utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// SessionAuthMiddleware resolves the session token from the Authorization
// header (or the session cookie) against the Redis session store and puts the
// authenticated identity into the request context. Absence of a session is
// not an error beyond this point: the request is answered with a structured
// "Login required" body and no further processing.
func SessionAuthMiddleware(rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		authHeader := c.GetHeader("Authorization") // Prefer the Authorization header
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie("session"); err == nil {
			tokenStr = cookie // Fall back to the session cookie
		}
		if tokenStr == "" {
			// No session at all, ask the client to log in
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		sess, err := utils.ValidateSession(c.Request.Context(), rdb, tokenStr, secret)
		if err != nil {
			// Invalid, expired or logged-out session
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Set("userID", sess.UserID)     // Authenticated user ID
		c.Set("username", sess.Username) // Username from the session record
		c.Set("email", sess.Email)       // Email from the session record
		c.Set("sessionToken", tokenStr)  // Raw token, needed by logout
		c.Next()                         // Proceed to the next handler
	}
}
