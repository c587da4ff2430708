package api

import (
	"net/http"                 // HTTP status codes
	"time"                     // Timestamps
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Session-gated endpoints operating on the authenticated user's own library
// and wishlist. The session middleware has already resolved the identity into
// the context; these handlers never take a user id from the client.

// AddWishRequest names the game the current user wants
type AddWishRequest struct {
	GameID uint `json:"game_id" binding:"required"` // Wished game ID
}

// MyLibraryHandler returns the current user's library with game details
func MyLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		var entries []domain.Library
		if err := db.Preload("Game.Developer").Where("user_id = ?", userID).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch library"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"library": entries})
	}
}

// MyWishlistHandler returns the current user's wishlist with game and
// developer details
func MyWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		var entries []domain.Wishlist
		if err := db.Preload("Game.Developer").Where("user_id = ?", userID).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"wishlist": entries})
	}
}

// WishGameHandler adds a game to the current user's wishlist
func WishGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		var req AddWishRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The game must exist
		var game domain.Game
		if err := db.First(&game, req.GameID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		// One entry per (user, game) pair
		var existing domain.Wishlist
		if err := db.Where("user_id = ? AND game_id = ?", userID, req.GameID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in your wishlist"})
			return
		}
		entry := domain.Wishlist{UserID: userID.(uint), GameID: req.GameID, AddedDate: time.Now().UTC()}
		if err := db.Create(&entry).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in your wishlist"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Game added to wishlist", "entry": entry})
	}
}

// UnwishGameHandler removes a game from the current user's wishlist
func UnwishGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		gameID := c.Param("gameId") // Game ID from the path
		var entry domain.Wishlist
		if err := db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&entry).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found in your wishlist"})
			return
		}
		if err := db.Delete(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game removed from wishlist"})
	}
}

// MoveToLibraryHandler moves a game from the current user's wishlist into
// their library. The wishlist delete and the library insert commit as one
// atomic unit: afterwards the pair has exactly one library row and no
// wishlist row, or nothing changed at all.
func MoveToLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		gameID := c.Param("gameId") // Game ID from the path
		// The game must currently be wishlisted
		var wish domain.Wishlist
		if err := db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&wish).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found in your wishlist"})
			return
		}
		// And must not already be owned
		var owned int64
		db.Model(&domain.Library{}).Where("user_id = ? AND game_id = ?", userID, gameID).Count(&owned)
		if owned > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Game is already in your library"})
			return
		}
		var entry domain.Library
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&wish).Error; err != nil {
				return err // Return error to rollback
			}
			entry = domain.Library{UserID: wish.UserID, GameID: wish.GameID, AddedDate: time.Now().UTC()}
			return tx.Create(&entry).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": wish.UserID, // Moving user ID
				"game_id": wish.GameID, // Moved game ID
				"error":   err.Error(), // Error message
			}).Error("Wishlist move failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move game to library"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game moved to library", "entry": entry})
	}
}
