package api

import (
	"context"                   // Context for Redis operations
	"math"                      // Percentage rounding
	"net/http"                  // HTTP status codes
	"sort"                      // Ordering of monthly buckets
	"time"                      // Timestamps and cache TTLs
	"gamerash/internal/domain"  // Importing domain models
	"gamerash/internal/payment" // Payment gateway collaborator
	"gamerash/internal/utils"   // Cache utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ProcessPaymentRequest carries what the client submits to pay a purchase
type ProcessPaymentRequest struct {
	PurchaseID     uint   `json:"purchase_id" binding:"required"`    // Purchase being paid for
	PaymentMethod  string `json:"payment_method" binding:"required"` // e.g. credit_card, paypal
	CardNumber     string `json:"card_number"`                       // Passed through to the gateway
	ExpiryDate     string `json:"expiry_date"`                       // Passed through to the gateway
	CVV            string `json:"cvv"`                               // Passed through to the gateway
	BillingAddress string `json:"billing_address"`                   // Passed through to the gateway
}

// RefundRequest optionally limits a refund to part of the charged amount
type RefundRequest struct {
	Amount float64 `json:"amount"` // Zero means refund in full
}

// paymentAmount resolves what a purchase costs: the game's list price, or
// the default price when none is set
func paymentAmount(game *domain.Game) float64 {
	if game != nil && game.Price > 0 {
		return game.Price
	}
	return domain.DefaultGamePrice
}

// ListPaymentsHandler returns all payments with purchase context
func ListPaymentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payments []domain.Payment
		if err := db.Preload("Purchase.User").Preload("Purchase.Game").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		type paymentRow struct {
			ID            uint      `json:"id"`                   // Payment ID
			PurchaseID    uint      `json:"purchase_id"`          // Owning purchase ID
			PaymentMethod string    `json:"payment_method"`       // Payment method
			Amount        float64   `json:"amount"`               // Charged amount
			PaymentDate   time.Time `json:"payment_date"`         // Attempt timestamp
			Status        string    `json:"status"`               // Payment status
			Username      string    `json:"username,omitempty"`   // Buyer name
			GameTitle     string    `json:"game_title,omitempty"` // Game title
		}
		rows := make([]paymentRow, len(payments))
		for i, p := range payments {
			row := paymentRow{
				ID:            p.ID,            // Payment ID
				PurchaseID:    p.PurchaseID,    // Owning purchase ID
				PaymentMethod: p.PaymentMethod, // Payment method
				Amount:        p.Amount,        // Charged amount
				PaymentDate:   p.PaymentDate,   // Attempt timestamp
				Status:        p.Status,        // Payment status
			}
			if p.Purchase != nil && p.Purchase.User != nil {
				row.Username = p.Purchase.User.Username // Buyer name
			}
			if p.Purchase != nil && p.Purchase.Game != nil {
				row.GameTitle = p.Purchase.Game.Title // Game title
			}
			rows[i] = row
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetPaymentHandler returns one payment with purchase context
func GetPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Payment ID from the path
		var p domain.Payment
		if err := db.Preload("Purchase.User").Preload("Purchase.Game").First(&p, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// ProcessPaymentHandler charges a purchase through the payment gateway and
// records the outcome. A purchase with a Completed payment cannot be charged
// again.
func ProcessPaymentHandler(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProcessPaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The purchase must exist; its game carries the price
		var purchase domain.Purchase
		if err := db.Preload("Game").First(&purchase, req.PurchaseID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Purchase not found"})
			return
		}
		// Only one completed payment per purchase
		var existing domain.Payment
		if err := db.Where("purchase_id = ? AND status = ?", req.PurchaseID, domain.PaymentCompleted).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already processed for this purchase"})
			return
		}
		amount := paymentAmount(purchase.Game) // Game price or default
		// Charge through the external gateway
		result, err := gw.Charge(c.Request.Context(), payment.ChargeRequest{
			PurchaseID:     req.PurchaseID,     // Purchase being paid for
			PaymentMethod:  req.PaymentMethod,  // Payment method
			Amount:         amount,             // Amount to charge
			CardNumber:     req.CardNumber,     // Card-like fields
			ExpiryDate:     req.ExpiryDate,     // Card expiry
			CVV:            req.CVV,            // Card verification value
			BillingAddress: req.BillingAddress, // Billing address
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"purchase_id": req.PurchaseID, // Purchase being paid for
				"error":       err.Error(),    // Error message
			}).Error("Payment gateway call failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway unavailable"})
			return
		}
		status := domain.PaymentCompleted // Gateway accepted the charge
		if !result.Success {
			status = domain.PaymentFailed // Gateway declined the charge
		}
		p := domain.Payment{
			PurchaseID:    req.PurchaseID,       // Owning purchase ID
			PaymentMethod: req.PaymentMethod,    // Payment method
			Amount:        amount,               // Charged amount
			PaymentDate:   time.Now().UTC(),     // Attempt timestamp
			Status:        status,               // Outcome
			TransactionID: result.TransactionID, // Gateway reference
		}
		if err := db.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		if !result.Success {
			// The declined attempt is recorded, the client gets the reason
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment failed: " + result.ErrorMessage, "payment": p})
			return
		}
		logrus.WithFields(logrus.Fields{
			"payment_id":     p.ID,                 // New payment ID
			"purchase_id":    req.PurchaseID,       // Owning purchase ID
			"amount":         amount,               // Charged amount
			"transaction_id": result.TransactionID, // Gateway reference
		}).Info("Payment processed")
		c.JSON(http.StatusCreated, p)
	}
}

// RefundPaymentHandler reverses a completed payment through the gateway.
// A partial amount leaves the payment Partially Refunded.
func RefundPaymentHandler(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Payment ID from the path
		var p domain.Payment
		if err := db.First(&p, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		// Only completed payments can be refunded
		if p.Status != domain.PaymentCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only completed payments can be refunded"})
			return
		}
		var req RefundRequest // Optional partial amount
		_ = c.ShouldBindJSON(&req)
		amount := p.Amount // Full refund by default
		if req.Amount > 0 {
			if req.Amount > p.Amount {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Refund amount exceeds payment amount"})
				return
			}
			amount = req.Amount
		}
		result, err := gw.Refund(c.Request.Context(), p.TransactionID, amount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway unavailable"})
			return
		}
		if !result.Success {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Refund failed: " + result.ErrorMessage})
			return
		}
		p.Status = domain.PaymentRefunded // Fully refunded
		if amount < p.Amount {
			p.Status = domain.PaymentPartiallyRefunded // Part of the charge refunded
		}
		if err := db.Save(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record refund"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"payment_id": p.ID,     // Refunded payment ID
			"amount":     amount,   // Refunded amount
			"status":     p.Status, // Resulting status
		}).Info("Refund processed")
		c.JSON(http.StatusOK, p)
	}
}

// PaymentStatisticsHandler aggregates payment counts, success rate, revenue
// and per-method/per-month breakdowns
func PaymentStatisticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()  // Use background context for Redis
		cacheKey := "stats:payments" // Single cache key, no parameters
		var cached map[string]any    // Cached aggregate payload
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		var completed, failed int64 // Outcome counts
		db.Model(&domain.Payment{}).Where("status = ?", domain.PaymentCompleted).Count(&completed)
		db.Model(&domain.Payment{}).Where("status = ?", domain.PaymentFailed).Count(&failed)
		var totalRevenue float64 // Sum of completed payment amounts
		if err := db.Model(&domain.Payment{}).Where("status = ?", domain.PaymentCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
			return
		}
		successRate := 0.0
		if completed+failed > 0 {
			successRate = math.Round(float64(completed)/float64(completed+failed)*10000) / 100 // Percent, two decimals
		}
		// Per-method breakdown of completed payments
		type methodStat struct {
			PaymentMethod string  `json:"payment_method"` // Payment method
			Count         int64   `json:"count"`          // Completed payments with the method
			Revenue       float64 `json:"revenue"`        // Revenue through the method
		}
		var methods []methodStat
		if err := db.Model(&domain.Payment{}).Where("status = ?", domain.PaymentCompleted).
			Select("payment_method, COUNT(*) as count, COALESCE(SUM(amount), 0) as revenue").
			Group("payment_method").Scan(&methods).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to group payments"})
			return
		}
		// Monthly revenue, computed from the fetched rows
		var rows []domain.Payment
		if err := db.Select("amount", "payment_date").Where("status = ?", domain.PaymentCompleted).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		type monthlyRevenue struct {
			Year    int     `json:"year"`    // Calendar year
			Month   int     `json:"month"`   // Calendar month
			Revenue float64 `json:"revenue"` // Revenue in that month
			Count   int64   `json:"count"`   // Completed payments in that month
		}
		buckets := map[[2]int]*monthlyRevenue{}
		for _, p := range rows {
			k := [2]int{p.PaymentDate.Year(), int(p.PaymentDate.Month())}
			if buckets[k] == nil {
				buckets[k] = &monthlyRevenue{Year: k[0], Month: k[1]}
			}
			buckets[k].Revenue += p.Amount
			buckets[k].Count++
		}
		monthly := make([]monthlyRevenue, 0, len(buckets))
		for _, v := range buckets {
			monthly = append(monthly, *v)
		}
		sort.Slice(monthly, func(i, j int) bool {
			if monthly[i].Year != monthly[j].Year {
				return monthly[i].Year < monthly[j].Year
			}
			return monthly[i].Month < monthly[j].Month
		})
		respData := gin.H{
			"total_payments":  completed,   // Completed payment count
			"failed_payments": failed,      // Failed payment count
			"success_rate":    successRate, // Percent of successful attempts
			"total_revenue":   totalRevenue,
			"payment_methods": methods, // Per-method breakdown
			"monthly_revenue": monthly, // Monthly buckets
			"cached":          false,   // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
