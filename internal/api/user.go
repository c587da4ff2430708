package api

import (
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"gamerash/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// UserRequest carries the writable user fields
type UserRequest struct {
	ID       uint   `json:"id"`       // User ID, used by updates
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email address
	Password string `json:"password"` // Plain password, hashed before storage
}

// ListUsersHandler returns all users with their role flags
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Slice to hold users
		if err := db.Preload("Admin").Preload("Developer").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		type userRow struct {
			ID              uint   `json:"id"`                         // User ID
			Username        string `json:"username"`                   // Username
			Email           string `json:"email"`                      // Email address
			IsAdmin         bool   `json:"is_admin"`                   // Has an admin profile
			IsDeveloper     bool   `json:"is_developer"`               // Has a developer profile
			DeveloperStudio string `json:"developer_studio,omitempty"` // Studio name when developer
		}
		resp := make([]userRow, len(users))
		for i, u := range users {
			row := userRow{
				ID:          u.ID,               // User ID
				Username:    u.Username,         // Username
				Email:       u.Email,            // Email address
				IsAdmin:     u.Admin != nil,     // Has an admin profile
				IsDeveloper: u.Developer != nil, // Has a developer profile
			}
			if u.Developer != nil {
				row.DeveloperStudio = u.Developer.StudioName // Studio name
			}
			resp[i] = row
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns one user's full profile: role info, library,
// wishlist, purchases and reviews
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // User ID from the path
		var user domain.User
		if err := db.Preload("Admin").Preload("Developer").
			Preload("Libraries.Game").Preload("Wishlists.Game").
			Preload("Purchases.Game").Preload("GameReviews.Game").
			First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		resp := gin.H{
			"id":           user.ID,               // User ID
			"username":     user.Username,         // Username
			"email":        user.Email,            // Email address
			"is_admin":     user.Admin != nil,     // Has an admin profile
			"is_developer": user.Developer != nil, // Has a developer profile
			"libraries":    user.Libraries,        // Owned games
			"wishlists":    user.Wishlists,        // Wished games
			"purchases":    user.Purchases,        // Purchase history
			"game_reviews": user.GameReviews,      // Reviews written
		}
		if user.Developer != nil {
			resp["developer_studio"] = user.Developer.StudioName // Studio name
			resp["developer_bio"] = user.Developer.Bio           // Studio description
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserByUsernameHandler looks a user up by username
func GetUserByUsernameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username") // Username from the path
		var user domain.User
		if err := db.Preload("Admin").Preload("Developer").
			Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// CreateUserHandler inserts a user directly (administrative path, bypasses
// the registration flow's confirmation field)
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
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
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{Username: req.Username, Email: req.Email, Password: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// UpdateUserHandler changes a user's username, email or password
func UpdateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // User ID from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		var req UserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Path identifier must match the payload identifier
		if uint(id) != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID mismatch"})
			return
		}
		var user domain.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Changing the username requires the new one to be free
		if req.Username != "" && req.Username != user.Username {
			var taken int64
			db.Model(&domain.User{}).Where("username = ? AND id <> ?", req.Username, id).Count(&taken)
			if taken > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
				return
			}
			user.Username = req.Username
		}
		// Changing the email requires the new one to be free
		if req.Email != "" && req.Email != user.Email {
			var taken int64
			db.Model(&domain.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&taken)
			if taken > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
				return
			}
			user.Email = req.Email
		}
		// New password is re-hashed
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			user.Password = string(hash)
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteUserHandler removes a user and everything hanging off them: admin and
// developer profiles, library and wishlist rows, reviews, purchases and the
// purchases' payments, all in one transaction. Blocked while the user's
// developer profile still owns games.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // User ID from the path
		var user domain.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Restrict rule: a developer profile with games blocks the cascade
		var dev domain.Developer
		if err := db.Where("user_id = ?", user.ID).First(&dev).Error; err == nil {
			var games int64
			db.Model(&domain.Game{}).Where("developer_id = ?", dev.ID).Count(&games)
			if games > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Developer still owns games"})
				return
			}
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Payments of the user's purchases go first
			var purchaseIDs []uint
			if err := tx.Model(&domain.Purchase{}).Where("user_id = ?", user.ID).Pluck("id", &purchaseIDs).Error; err != nil {
				return err
			}
			if len(purchaseIDs) > 0 {
				if err := tx.Where("purchase_id IN ?", purchaseIDs).Delete(&domain.Payment{}).Error; err != nil {
					return err
				}
			}
			// Then the dependent rows of the user itself
			for _, m := range []any{&domain.Purchase{}, &domain.Library{}, &domain.Wishlist{}, &domain.GameReview{}, &domain.Admin{}, &domain.Developer{}} {
				if err := tx.Where("user_id = ?", user.ID).Delete(m).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error // Finally the user row
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to delete user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetUserLibraryHandler returns a user's library rows with game details
func GetUserLibraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // User ID from the path
		var entries []domain.Library
		if err := db.Preload("Game").Where("user_id = ?", id).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch library"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// GetUserWishlistHandler returns a user's wishlist rows with game details
func GetUserWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // User ID from the path
		var entries []domain.Wishlist
		if err := db.Preload("Game").Where("user_id = ?", id).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
