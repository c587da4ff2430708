package api

import (
	"net/http"                 // HTTP status codes
	"time"                     // Timestamps
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// LibraryRequest carries the fields for adding a library entry
type LibraryRequest struct {
	UserID uint `json:"user_id" binding:"required"` // Owning user ID
	GameID uint `json:"game_id" binding:"required"` // Owned game ID
}

// ListLibrariesHandler returns all library entries with user and game names
func ListLibrariesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries []domain.Library
		if err := db.Preload("User").Preload("Game").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch libraries"})
			return
		}
		type row struct {
			ID        uint      `json:"id"`                   // Entry ID
			UserID    uint      `json:"user_id"`              // Owning user ID
			Username  string    `json:"username,omitempty"`   // Owner name
			GameID    uint      `json:"game_id"`              // Owned game ID
			GameTitle string    `json:"game_title,omitempty"` // Game title
			AddedDate time.Time `json:"added_date"`           // When the entry was added
		}
		rows := make([]row, len(entries))
		for i, e := range entries {
			r := row{ID: e.ID, UserID: e.UserID, GameID: e.GameID, AddedDate: e.AddedDate}
			if e.User != nil {
				r.Username = e.User.Username // Owner name
			}
			if e.Game != nil {
				r.GameTitle = e.Game.Title // Game title
			}
			rows[i] = r
		}
		c.JSON(http.StatusOK, rows)
	}
}

// ListLibraryByUserHandler returns one user's library with game details
func ListLibraryByUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // User ID from the path
		var entries []domain.Library
		if err := db.Preload("Game").Where("user_id = ?", userID).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch library"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// AddToLibraryHandler inserts a library entry for a (user, game) pair
func AddToLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LibraryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// One entry per (user, game) pair
		var existing domain.Library
		if err := db.Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in user's library"})
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
		entry := domain.Library{UserID: req.UserID, GameID: req.GameID, AddedDate: time.Now().UTC()}
		if err := db.Create(&entry).Error; err != nil {
			// Composite unique index backstop for concurrent adds
			c.JSON(http.StatusConflict, gin.H{"error": "Game is already in user's library"})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// RemoveFromLibraryHandler deletes a library entry by its ID
func RemoveFromLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Entry ID from the path
		var entry domain.Library
		if err := db.First(&entry, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Library entry not found"})
			return
		}
		if err := db.Delete(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove library entry"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// RemoveGameFromUserLibraryHandler deletes a library entry by (user, game)
func RemoveGameFromUserLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // User ID from the path
		gameID := c.Param("gameId") // Game ID from the path
		var entry domain.Library
		if err := db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&entry).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found in user's library"})
			return
		}
		if err := db.Delete(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove library entry"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// CheckGameInLibraryHandler reports whether a (user, game) pair is owned
func CheckGameInLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // User ID from the path
		gameID := c.Param("gameId") // Game ID from the path
		var entry domain.Library
		err := db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&entry).Error
		resp := gin.H{
			"user_id":       userID,      // Queried user ID
			"game_id":       gameID,      // Queried game ID
			"is_in_library": err == nil,  // Whether the pair exists
		}
		if err == nil {
			resp["added_date"] = entry.AddedDate // When the game was added
		}
		c.JSON(http.StatusOK, resp)
	}
}
