package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"gamerash/internal/api"        // Custom package for API handlers
	"gamerash/internal/config"     // Custom package for configuration
	"gamerash/internal/middleware" // Custom package for middleware
	"gamerash/internal/payment"    // Payment gateway collaborator

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// The payment gateway stub, swappable for a real integration
	gateway := &payment.StubGateway{Delay: cfg.GatewayDelay}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Health routes
	r.GET("/health", api.HealthHandler())        // Liveness endpoint
	r.GET("/health/db", api.DBHealthHandler(db)) // Database connectivity endpoint

	// Auth routes
	sessionAuth := middleware.SessionAuthMiddleware(redisClient, cfg.JWTSecret)
	r.POST("/auth/register", api.RegisterHandler(db))                             // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(db, redisClient, cfg))                 // Login endpoint
	r.POST("/auth/logout", sessionAuth, api.LogoutHandler(redisClient, cfg.JWTSecret)) // Logout endpoint
	r.GET("/auth/me", sessionAuth, api.MeHandler())                               // Session identity endpoint

	// Session-gated user pages: library view, wishlist view, add/remove, move
	account := r.Group("")
	account.Use(sessionAuth)
	account.GET("/library", api.MyLibraryHandler(db))                    // Own library view
	account.GET("/wishlist", api.MyWishlistHandler(db))                  // Own wishlist view
	account.POST("/wishlist", api.WishGameHandler(db))                   // Add to own wishlist
	account.DELETE("/wishlist/:gameId", api.UnwishGameHandler(db))       // Remove from own wishlist
	account.POST("/library/move/:gameId", api.MoveToLibraryHandler(db))  // Move wishlist entry into library

	// Game resource endpoints
	games := r.Group("/api/games")
	games.GET("", api.ListGamesHandler(db, redisClient))      // Catalog listing
	games.GET("/:id", api.GetGameHandler(db))                 // Game detail
	games.POST("", api.CreateGameHandler(db, redisClient))    // Create game
	games.PUT("/:id", api.UpdateGameHandler(db, redisClient)) // Update game
	games.DELETE("/:id", api.DeleteGameHandler(db, redisClient)) // Delete game

	// User resource endpoints
	users := r.Group("/api/users")
	users.GET("", api.ListUsersHandler(db))                          // List users
	users.GET("/:id", api.GetUserHandler(db))                        // Full profile
	users.GET("/username/:username", api.GetUserByUsernameHandler(db)) // Lookup by username
	users.POST("", api.CreateUserHandler(db))                        // Create user
	users.PUT("/:id", api.UpdateUserHandler(db))                     // Update user
	users.DELETE("/:id", api.DeleteUserHandler(db))                  // Delete user with cascade
	users.GET("/:id/library", api.GetUserLibraryHandler(db))         // User's library
	users.GET("/:id/wishlist", api.GetUserWishlistHandler(db))       // User's wishlist

	// Purchase resource endpoints
	purchases := r.Group("/api/purchases")
	purchases.GET("", api.ListPurchasesHandler(db))                        // List purchases
	purchases.GET("/statistics", api.PurchaseStatisticsHandler(db, redisClient)) // Purchase statistics
	purchases.GET("/:id", api.GetPurchaseHandler(db))                      // Purchase detail
	purchases.GET("/user/:userId", api.ListPurchasesByUserHandler(db))     // Purchases by user
	purchases.GET("/game/:gameId", api.ListPurchasesByGameHandler(db))     // Purchases by game
	purchases.POST("", api.CreatePurchaseHandler(db))                      // Create purchase + library entry
	purchases.PUT("/:id", api.UpdatePurchaseHandler(db))                   // Update purchase
	purchases.DELETE("/:id", api.DeletePurchaseHandler(db))                // Delete purchase with payments

	// Payment resource endpoints
	payments := r.Group("/api/payments")
	payments.GET("", api.ListPaymentsHandler(db))                              // List payments
	payments.GET("/statistics", api.PaymentStatisticsHandler(db, redisClient)) // Payment statistics
	payments.GET("/:id", api.GetPaymentHandler(db))                            // Payment detail
	payments.POST("", api.ProcessPaymentHandler(db, gateway))                  // Process a payment
	payments.POST("/:id/refund", api.RefundPaymentHandler(db, gateway))        // Refund a payment

	// Review resource endpoints
	reviews := r.Group("/api/reviews")
	reviews.GET("", api.ListReviewsHandler(db))                   // List reviews
	reviews.GET("/:id", api.GetReviewHandler(db))                 // Review detail
	reviews.GET("/game/:gameId", api.ListReviewsByGameHandler(db)) // Reviews by game
	reviews.POST("", api.CreateReviewHandler(db))                 // Submit review
	reviews.PUT("/:id", api.UpdateReviewHandler(db))              // Update review
	reviews.DELETE("/:id", api.DeleteReviewHandler(db))           // Delete review

	// Library resource endpoints
	libraries := r.Group("/api/libraries")
	libraries.GET("", api.ListLibrariesHandler(db))                       // List library entries
	libraries.GET("/user/:userId", api.ListLibraryByUserHandler(db))      // Library by user
	libraries.GET("/check/user/:userId/game/:gameId", api.CheckGameInLibraryHandler(db)) // Ownership check
	libraries.POST("", api.AddToLibraryHandler(db))                       // Add library entry
	libraries.DELETE("/:id", api.RemoveFromLibraryHandler(db))            // Remove by entry ID
	libraries.DELETE("/user/:userId/game/:gameId", api.RemoveGameFromUserLibraryHandler(db)) // Remove by pair

	// Wishlist resource endpoints
	wishlists := r.Group("/api/wishlists")
	wishlists.GET("", api.ListWishlistsHandler(db))                  // List wishlist entries
	wishlists.GET("/user/:userId", api.ListWishlistByUserHandler(db)) // Wishlist by user
	wishlists.POST("", api.AddToWishlistHandler(db))                 // Add wishlist entry
	wishlists.DELETE("/:id", api.RemoveFromWishlistHandler(db))      // Remove by entry ID

	// Admin routes (session + admin profile required)
	adminGroup := r.Group("/admin")
	adminGroup.Use(sessionAuth, middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.AdminListUsersHandler(db, redisClient)) // List users with profiles

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
