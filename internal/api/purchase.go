package api

import (
	"context"                  // Context for Redis operations
	"net/http"                 // HTTP status codes
	"sort"                     // Ordering of monthly buckets
	"strconv"                  // String conversion
	"time"                     // Timestamps and cache TTLs
	"gamerash/internal/domain" // Importing domain models
	"gamerash/internal/utils"  // Cache utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// PurchaseRequest carries the writable purchase fields
type PurchaseRequest struct {
	ID           uint      `json:"id"`            // Purchase ID, used by updates
	UserID       uint      `json:"user_id"`       // Buying user ID
	GameID       uint      `json:"game_id"`       // Purchased game ID
	PurchaseDate time.Time `json:"purchase_date"` // Used by updates only
}

// MonthlyCount is one month's bucket in the purchase statistics
type MonthlyCount struct {
	Year  int   `json:"year"`  // Calendar year
	Month int   `json:"month"` // Calendar month, 1 to 12
	Count int64 `json:"count"` // Purchases in that month
}

// ListPurchasesHandler returns all purchases with user, game and payments
func ListPurchasesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var purchases []domain.Purchase
		if err := db.Preload("User").Preload("Game").Preload("Payments").Find(&purchases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

// GetPurchaseHandler returns one purchase with its relations
func GetPurchaseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Purchase ID from the path
		var purchase domain.Purchase
		if err := db.Preload("User").Preload("Game").Preload("Payments").First(&purchase, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

// ListPurchasesByUserHandler returns one user's purchases
func ListPurchasesByUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // User ID from the path
		var purchases []domain.Purchase
		if err := db.Preload("Game").Preload("Payments").Where("user_id = ?", userID).Find(&purchases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

// ListPurchasesByGameHandler returns one game's purchases
func ListPurchasesByGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("gameId") // Game ID from the path
		var purchases []domain.Purchase
		if err := db.Preload("User").Preload("Payments").Where("game_id = ?", gameID).Find(&purchases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

// CreatePurchaseHandler records a purchase. A purchase puts the game into
// the buyer's library; both rows are committed in one transaction so the
// system can never hold a purchase without its library entry.
func CreatePurchaseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Buyer and game must exist
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
		// One purchase per (user, game) pair
		var existing domain.Purchase
		if err := db.Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "User already owns this game"})
			return
		}
		now := time.Now().UTC()
		purchase := domain.Purchase{UserID: req.UserID, GameID: req.GameID, PurchaseDate: now}
		// Atomic purchase plus library entry
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&purchase).Error; err != nil {
				return err // Return error to rollback
			}
			// The game may already sit in the library (added manually)
			var inLibrary int64
			if err := tx.Model(&domain.Library{}).Where("user_id = ? AND game_id = ?", req.UserID, req.GameID).Count(&inLibrary).Error; err != nil {
				return err
			}
			if inLibrary == 0 {
				entry := domain.Library{UserID: req.UserID, GameID: req.GameID, AddedDate: now}
				if err := tx.Create(&entry).Error; err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": req.UserID,  // Buying user ID
				"game_id": req.GameID,  // Purchased game ID
				"error":   err.Error(), // Error message
			}).Error("Purchase failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"purchase_id": purchase.ID, // New purchase ID
			"user_id":     req.UserID,  // Buying user ID
			"game_id":     req.GameID,  // Purchased game ID
		}).Info("Purchase recorded")
		c.JSON(http.StatusCreated, purchase)
	}
}

// UpdatePurchaseHandler changes the purchase date, the only mutable field
func UpdatePurchaseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Purchase ID from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
			return
		}
		var req PurchaseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Path identifier must match the payload identifier
		if uint(id) != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Purchase ID mismatch"})
			return
		}
		var purchase domain.Purchase
		if err := db.First(&purchase, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
			return
		}
		purchase.PurchaseDate = req.PurchaseDate // Only the date is updatable
		if err := db.Save(&purchase).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeletePurchaseHandler removes a purchase together with its payments
func DeletePurchaseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Purchase ID from the path
		var purchase domain.Purchase
		if err := db.First(&purchase, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
			return
		}
		// Cascade rule: payments go together with the purchase, atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&domain.Payment{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&purchase).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"purchase_id": purchase.ID, // Purchase ID
				"error":       err.Error(), // Error message
			}).Error("Failed to delete purchase")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// PurchaseStatisticsHandler aggregates purchase counts, revenue, monthly
// buckets and the best selling games
func PurchaseStatisticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()     // Use background context for Redis
		cacheKey := "stats:purchases"   // Single cache key, no parameters
		var cached map[string]any       // Cached aggregate payload
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		var totalPurchases int64 // Total purchase count
		if err := db.Model(&domain.Purchase{}).Count(&totalPurchases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count purchases"})
			return
		}
		// Revenue is the sum of completed payment amounts
		var totalRevenue float64
		if err := db.Model(&domain.Payment{}).Where("status = ?", domain.PaymentCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
			return
		}
		// Monthly buckets, computed from the fetched timestamps
		var dates []time.Time
		if err := db.Model(&domain.Purchase{}).Pluck("purchase_date", &dates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase dates"})
			return
		}
		buckets := map[[2]int]int64{}
		for _, d := range dates {
			buckets[[2]int{d.Year(), int(d.Month())}]++
		}
		monthly := make([]MonthlyCount, 0, len(buckets))
		for k, v := range buckets {
			monthly = append(monthly, MonthlyCount{Year: k[0], Month: k[1], Count: v})
		}
		sort.Slice(monthly, func(i, j int) bool {
			if monthly[i].Year != monthly[j].Year {
				return monthly[i].Year < monthly[j].Year
			}
			return monthly[i].Month < monthly[j].Month
		})
		// Top ten games by purchase count
		type topGame struct {
			GameID        uint  `json:"game_id"`        // Game ID
			PurchaseCount int64 `json:"purchase_count"` // Purchases of the game
		}
		var topGames []topGame
		if err := db.Model(&domain.Purchase{}).
			Select("game_id, COUNT(*) as purchase_count").
			Group("game_id").Order("purchase_count desc").Limit(10).
			Scan(&topGames).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank games"})
			return
		}
		respData := gin.H{
			"total_purchases":    totalPurchases, // Total purchase count
			"total_revenue":      totalRevenue,   // Sum of completed payments
			"purchases_by_month": monthly,        // Monthly buckets
			"top_games":          topGames,       // Best sellers
			"cached":             false,          // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
