package middleware

import (
	"net/http"                 // HTTP status codes
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware allows only users with an Admin profile through. The
// Admins table is consulted on each request so revoking the profile takes
// effect immediately.
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Set by the session middleware
		if !exists {
			// No authenticated identity, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		var admin domain.Admin // Look up the admin profile
		if err := db.Where("user_id = ?", userID).First(&admin).Error; err != nil {
			// No admin row for this user, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next() // Admin confirmed, proceed to the next handler
	}
}
