package api

import (
	"net/http"                 // HTTP status codes
	"time"                     // Timestamps
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// WishlistRequest carries the fields for adding a wishlist entry
type WishlistRequest struct {
	UserID uint `json:"user_id" binding:"required"` // Wishing user ID
	GameID uint `json:"game_id" binding:"required"` // Wished game ID
}

// ListWishlistsHandler returns all wishlist entries with user and game names
func ListWishlistsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries []domain.Wishlist
		if err := db.Preload("User").Preload("Game").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlists"})
			return
		}
		type row struct {
			ID        uint      `json:"id"`                   // Entry ID
			UserID    uint      `json:"user_id"`              // Wishing user ID
			Username  string    `json:"username,omitempty"`   // User name
			GameID    uint      `json:"game_id"`              // Wished game ID
			GameTitle string    `json:"game_title,omitempty"` // Game title
			AddedDate time.Time `json:"added_date"`           // When the entry was added
		}
		rows := make([]row, len(entries))
		for i, e := range entries {
			r := row{ID: e.ID, UserID: e.UserID, GameID: e.GameID, AddedDate: e.AddedDate}
			if e.User != nil {
				r.Username = e.User.Username // User name
			}
			if e.Game != nil {
				r.GameTitle = e.Game.Title // Game title
			}
			rows[i] = r
		}
		c.JSON(http.StatusOK, rows)
	}
}

// ListWishlistByUserHandler returns one user's wishlist with game details
func ListWishlistByUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // User ID from the path
		var entries []domain.Wishlist
		if err := db.Preload("Game").Where("user_id = ?", userID).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// AddToWishlistHandler inserts a wishlist entry for a (user, game) pair
func AddToWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// User and game must exist
		var user domain.User
		if err := db.First(&user, req.UserID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
			return
		}
		var game domain.Game
		if err := db.First(&game, req.GameID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Game not found"})
			return
		}
		// One entry per (user, game) pair
		var existing domain.Wishlist
		if err := db.Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in user's wishlist"})
			return
		}
		entry := domain.Wishlist{UserID: req.UserID, GameID: req.GameID, AddedDate: time.Now().UTC()}
		if err := db.Create(&entry).Error; err != nil {
			// Composite unique index backstop for concurrent adds
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in user's wishlist"})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// RemoveFromWishlistHandler deletes a wishlist entry by its ID
func RemoveFromWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Entry ID from the path
		var entry domain.Wishlist
		if err := db.First(&entry, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist entry not found"})
			return
		}
		if err := db.Delete(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove wishlist entry"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
