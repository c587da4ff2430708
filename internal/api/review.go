package api

import (
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ReviewRequest carries the writable review fields
type ReviewRequest struct {
	ID     uint `json:"id"`      // Review ID, used by updates
	UserID uint `json:"user_id"` // Author ID
	GameID uint `json:"game_id"` // Reviewed game ID
	Rating int  `json:"rating"`  // Rating, 1 to 5 inclusive
}

// reviewRow is the review shape returned by the listing endpoints
type reviewRow struct {
	ID        uint   `json:"id"`                   // Review ID
	UserID    uint   `json:"user_id"`              // Author ID
	Username  string `json:"username,omitempty"`   // Author name
	GameID    uint   `json:"game_id"`              // Reviewed game ID
	GameTitle string `json:"game_title,omitempty"` // Game title
	Rating    int    `json:"rating"`               // Rating
}

func reviewRows(reviews []domain.GameReview) []reviewRow {
	rows := make([]reviewRow, len(reviews))
	for i, r := range reviews {
		row := reviewRow{ID: r.ID, UserID: r.UserID, GameID: r.GameID, Rating: r.Rating}
		if r.User != nil {
			row.Username = r.User.Username // Author name
		}
		if r.Game != nil {
			row.GameTitle = r.Game.Title // Game title
		}
		rows[i] = row
	}
	return rows
}

// ListReviewsHandler returns all reviews with author and game names
func ListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []domain.GameReview
		if err := db.Preload("User").Preload("Game").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviewRows(reviews))
	}
}

// GetReviewHandler returns one review
func GetReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Review ID from the path
		var review domain.GameReview
		if err := db.Preload("User").Preload("Game").First(&review, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusOK, reviewRows([]domain.GameReview{review})[0])
	}
}

// ListReviewsByGameHandler returns the reviews of one game
func ListReviewsByGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("gameId") // Game ID from the path
		var reviews []domain.GameReview
		if err := db.Preload("User").Where("game_id = ?", gameID).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviewRows(reviews))
	}
}

// CreateReviewHandler submits a review. One review per (user, game) pair,
// rating within [1,5].
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Rating constrained to the inclusive range 1 to 5
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		// Author and game must exist
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
		// One review per (user, game) pair
		var existing domain.GameReview
		if err := db.Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "User has already reviewed this game"})
			return
		}
		review := domain.GameReview{UserID: req.UserID, GameID: req.GameID, Rating: req.Rating}
		if err := db.Create(&review).Error; err != nil {
			// Composite unique index backstop for concurrent submissions
			c.JSON(http.StatusConflict, gin.H{"error": "User has already reviewed this game"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// UpdateReviewHandler changes the rating of an existing review
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Review ID from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}
		var req ReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Path identifier must match the payload identifier
		if uint(id) != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Review ID mismatch"})
			return
		}
		// Rating constrained to the inclusive range 1 to 5
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		var review domain.GameReview
		if err := db.First(&review, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		review.Rating = req.Rating // Only the rating is updatable
		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteReviewHandler removes a review
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Review ID from the path
		var review domain.GameReview
		if err := db.First(&review, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
