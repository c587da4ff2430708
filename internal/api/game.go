package api

import (
	"context"                  // Context for Redis operations
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"time"                     // Cache TTLs
	"gamerash/internal/domain" // Importing domain models
	"gamerash/internal/utils"  // Cache utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// GameSummary is one row of the catalog listing
type GameSummary struct {
	ID            uint    `json:"id"`             // Game ID
	DeveloperID   uint    `json:"developer_id"`   // Owning developer ID
	Title         string  `json:"title"`          // Game title
	Description   string  `json:"description"`    // Game description
	CoverImage    string  `json:"cover_image"`    // Cover image reference
	Price         float64 `json:"price"`          // List price
	DeveloperName string  `json:"developer_name"` // Studio name
	AverageRating float64 `json:"average_rating"` // Mean review rating, 0 when unreviewed
	ReviewCount   int     `json:"review_count"`   // Number of reviews
}

// GameRequest carries the writable game fields
type GameRequest struct {
	ID          uint    `json:"id"`           // Game ID, used by updates
	DeveloperID uint    `json:"developer_id"` // Owning developer ID
	Title       string  `json:"title"`        // Game title
	Description string  `json:"description"`  // Game description
	CoverImage  string  `json:"cover_image"`  // Cover image reference
	Price       float64 `json:"price"`        // List price
}

// gameSummaries shapes games into catalog rows with rating aggregates
func gameSummaries(games []domain.Game) []GameSummary {
	resp := make([]GameSummary, len(games))
	for i, g := range games {
		s := GameSummary{
			ID:          g.ID,          // Game ID
			DeveloperID: g.DeveloperID, // Owning developer ID
			Title:       g.Title,       // Game title
			Description: g.Description, // Game description
			CoverImage:  g.CoverImage,  // Cover image reference
			Price:       g.Price,       // List price
			ReviewCount: len(g.GameReviews),
		}
		if g.Developer != nil {
			s.DeveloperName = g.Developer.StudioName // Studio name
		}
		if len(g.GameReviews) > 0 {
			sum := 0
			for _, r := range g.GameReviews {
				sum += r.Rating
			}
			s.AverageRating = float64(sum) / float64(len(g.GameReviews)) // Mean rating
		}
		resp[i] = s
	}
	return resp
}

// ListGamesHandler returns the game catalog with developer and rating info
func ListGamesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		page, pageSize := pagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := "games:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Games      []GameSummary `json:"games"`       // Catalog rows
			Page       int           `json:"page"`        // Current page
			PageSize   int           `json:"page_size"`   // Page size
			Total      int64         `json:"total"`       // Total number of games
			TotalPages int           `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"games":       cached.Games,      // Catalog rows
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of games
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		var total int64 // Total game count
		if err := db.Model(&domain.Game{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
			return
		}
		var games []domain.Game // Slice to hold games
		// Preload relations needed by the summary rows
		if err := db.Preload("Developer").Preload("GameReviews").
			Offset((page - 1) * pageSize).Limit(pageSize).Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"games":       gameSummaries(games), // Catalog rows
			"page":        page,                 // Current page
			"page_size":   pageSize,             // Page size
			"total":       total,                // Total number of games
			"total_pages": totalPages,           // Total pages
			"cached":      false,                // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// GetGameHandler returns one game with its reviews and reference counts
func GetGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Game ID from the path
		var game domain.Game
		if err := db.Preload("Developer").First(&game, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		// Review list with author names
		var reviews []domain.GameReview
		if err := db.Preload("User").Where("game_id = ?", game.ID).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		type reviewRow struct {
			ID       uint   `json:"id"`       // Review ID
			UserID   uint   `json:"user_id"`  // Author ID
			Username string `json:"username"` // Author name
			Rating   int    `json:"rating"`   // Rating
		}
		reviewRows := make([]reviewRow, len(reviews))
		avg := 0.0
		for i, r := range reviews {
			row := reviewRow{ID: r.ID, UserID: r.UserID, Rating: r.Rating}
			if r.User != nil {
				row.Username = r.User.Username
			}
			reviewRows[i] = row
			avg += float64(r.Rating)
		}
		if len(reviews) > 0 {
			avg /= float64(len(reviews)) // Mean rating
		}
		// Reference counts for the detail view
		var purchaseCount, libraryCount, wishlistCount int64
		db.Model(&domain.Purchase{}).Where("game_id = ?", game.ID).Count(&purchaseCount)
		db.Model(&domain.Library{}).Where("game_id = ?", game.ID).Count(&libraryCount)
		db.Model(&domain.Wishlist{}).Where("game_id = ?", game.ID).Count(&wishlistCount)
		resp := gin.H{
			"id":             game.ID,          // Game ID
			"developer_id":   game.DeveloperID, // Owning developer ID
			"title":          game.Title,       // Game title
			"description":    game.Description, // Game description
			"cover_image":    game.CoverImage,  // Cover image reference
			"price":          game.Price,       // List price
			"average_rating": avg,              // Mean review rating
			"review_count":   len(reviews),     // Number of reviews
			"purchase_count": purchaseCount,    // Purchases referencing the game
			"library_count":  libraryCount,     // Library rows referencing the game
			"wishlist_count": wishlistCount,    // Wishlist rows referencing the game
			"reviews":        reviewRows,       // Review list
		}
		if game.Developer != nil {
			resp["developer_studio"] = game.Developer.StudioName // Studio name
			resp["developer_bio"] = game.Developer.Bio           // Studio description
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateGameHandler adds a game to the catalog
func CreateGameHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Title == "" || req.DeveloperID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and developer_id are required"})
			return
		}
		// The owning developer must exist
		var dev domain.Developer
		if err := db.First(&dev, req.DeveloperID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Developer not found"})
			return
		}
		game := domain.Game{
			DeveloperID: req.DeveloperID, // Owning developer ID
			Title:       req.Title,       // Game title
			Description: req.Description, // Game description
			CoverImage:  req.CoverImage,  // Cover image reference
			Price:       req.Price,       // List price
		}
		if err := db.Create(&game).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"title": req.Title,   // Game title
				"error": err.Error(), // Error message
			}).Error("Failed to create game")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
			return
		}
		invalidateGameCache(c, rdb) // Catalog changed
		c.JSON(http.StatusCreated, game)
	}
}

// UpdateGameHandler replaces the writable fields of a game
func UpdateGameHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Game ID from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
			return
		}
		var req GameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Path identifier must match the payload identifier
		if uint(id) != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Game ID mismatch"})
			return
		}
		var game domain.Game
		if err := db.First(&game, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		game.Title = req.Title             // Game title
		game.Description = req.Description // Game description
		game.CoverImage = req.CoverImage   // Cover image reference
		game.DeveloperID = req.DeveloperID // Owning developer ID
		game.Price = req.Price             // List price
		if err := db.Save(&game).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
			return
		}
		invalidateGameCache(c, rdb) // Catalog changed
		c.Status(http.StatusNoContent)
	}
}

// DeleteGameHandler removes a game. Deletion is blocked while purchases,
// library rows or wishlist rows reference the game; its reviews are removed
// together with it.
func DeleteGameHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Game ID from the path
		var game domain.Game
		if err := db.First(&game, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		// Restrict rule: any purchase, library or wishlist reference blocks the delete
		var refs int64
		db.Model(&domain.Purchase{}).Where("game_id = ?", game.ID).Count(&refs)
		if refs == 0 {
			db.Model(&domain.Library{}).Where("game_id = ?", game.ID).Count(&refs)
		}
		if refs == 0 {
			db.Model(&domain.Wishlist{}).Where("game_id = ?", game.ID).Count(&refs)
		}
		if refs > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is referenced by purchases, libraries or wishlists"})
			return
		}
		// Cascade rule: reviews go together with the game, atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("game_id = ?", game.ID).Delete(&domain.GameReview{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&game).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"game_id": game.ID,     // Game ID
				"error":   err.Error(), // Error message
			}).Error("Failed to delete game")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
			return
		}
		invalidateGameCache(c, rdb) // Catalog changed
		c.Status(http.StatusNoContent)
	}
}

// invalidateGameCache drops every cached catalog page after a write
func invalidateGameCache(c *gin.Context, rdb *redis.Client) {
	_ = utils.DeleteCacheByPrefix(c.Request.Context(), rdb, "games:")
}

// pagination reads page/page_size query parameters with the usual bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}
