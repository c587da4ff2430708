package api

import (
	"net/http"                 // HTTP status codes
	"gamerash/internal/config" // Application configuration
	"gamerash/internal/domain" // Importing domain models
	"gamerash/internal/utils"  // Session utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// RegisterRequest carries the registration form fields
type RegisterRequest struct {
	Username        string `json:"username"`         // Desired username
	Email           string `json:"email"`            // Email address
	Password        string `json:"password"`         // Plain password
	ConfirmPassword string `json:"confirm_password"` // Must match Password
}

// LoginRequest carries the login form fields
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token    string `json:"token"`    // Session token
	UserID   uint   `json:"user_id"`  // Authenticated user ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email address
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// All fields are required
		if req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}
		// Password and confirmation must match
		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
			return
		}
		// Enforce a minimum password length
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
			return
		}
		// Username must be free
		var existing domain.User
		if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		// Email must be free
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{Username: req.Username, Email: req.Email, Password: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			// Unique index backstop: a concurrent registration won the race
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Registered username
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user_id": user.ID})
	}
}

// LoginHandler authenticates a user and opens a session. Unknown usernames
// and wrong passwords produce the identical generic message so usernames
// cannot be enumerated.
func LoginHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Open the session: store the identity in Redis and sign a token for it
		token, err := utils.CreateSession(c.Request.Context(), rdb, user.ID, user.Username, user.Email, cfg.JWTSecret, cfg.SessionTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{
			Token:    token,         // Session token
			UserID:   user.ID,       // Authenticated user ID
			Username: user.Username, // Username
			Email:    user.Email,    // Email address
		})
	}
}

// LogoutHandler destroys the current session. The token stops working
// immediately, before its signed expiry.
func LogoutHandler(rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetString("sessionToken") // Set by the session middleware
		if err := utils.DestroySession(c.Request.Context(), rdb, tokenStr, secret); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// MeHandler echoes the identity stored in the session record
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint("userID"),     // Authenticated user ID
			"username": c.GetString("username"), // Username from the session
			"email":    c.GetString("email"),    // Email from the session
		})
	}
}
