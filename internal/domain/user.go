package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                         // Primary key
	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"` // Unique username
	Password string `gorm:"not null" json:"-"`                            // Hashed password, never serialized
	Email    string `gorm:"uniqueIndex;size:128;not null" json:"email"`   // Unique email address

	Admin     *Admin     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"admin,omitempty"`     // Optional admin profile
	Developer *Developer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"developer,omitempty"` // Optional developer profile

	Libraries   []Library    `gorm:"constraint:OnDelete:CASCADE" json:"libraries,omitempty"`    // Games the user owns
	Wishlists   []Wishlist   `gorm:"constraint:OnDelete:CASCADE" json:"wishlists,omitempty"`    // Games the user wants
	Purchases   []Purchase   `gorm:"constraint:OnDelete:CASCADE" json:"purchases,omitempty"`    // Purchase history
	GameReviews []GameReview `gorm:"constraint:OnDelete:CASCADE" json:"game_reviews,omitempty"` // Reviews written by the user
}

// Admin Model, one-to-one extension of User
type Admin struct {
	ID     uint `gorm:"primaryKey" json:"id"`       // Primary key
	UserID uint `gorm:"uniqueIndex" json:"user_id"` // Foreign key to User, one admin per user
}

// Developer Model, one-to-one extension of User
type Developer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`        // Primary key
	UserID     uint   `gorm:"uniqueIndex" json:"user_id"`  // Foreign key to User, one developer per user
	StudioName string `gorm:"size:128" json:"studio_name"` // Studio display name
	Bio        string `json:"bio"`                         // Studio description

	Games []Game `gorm:"constraint:OnDelete:RESTRICT" json:"games,omitempty"` // Games published by the studio, block studio deletion
}
