package api

import (
	"net/http"                 // HTTP status codes
	"time"                     // Timestamps
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// HealthHandler reports liveness
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0"})
	}
}

// DBHealthHandler reports database connectivity and basic row counts
func DBHealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB() // Underlying connection pool
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message":   "Database connection error",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			})
			return
		}
		var userCount, gameCount int64 // Basic table counts
		db.Model(&domain.User{}).Count(&userCount)
		db.Model(&domain.Game{}).Count(&gameCount)
		c.JSON(http.StatusOK, gin.H{
			"message":    "Database connection successful",
			"user_count": userCount, // Rows in users
			"game_count": gameCount, // Rows in games
			"timestamp":  time.Now().UTC(),
		})
	}
}
