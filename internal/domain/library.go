package domain

import "time"

// Library Model, a game a user owns, at most one row per (user, game) pair
type Library struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_library_user_game" json:"user_id"` // Foreign key to User
	GameID    uint      `gorm:"not null;uniqueIndex:idx_library_user_game" json:"game_id"` // Foreign key to Game
	AddedDate time.Time `json:"added_date"`                                             // When the game entered the library

	User *User `json:"user,omitempty"` // Owning user
	Game *Game `json:"game,omitempty"` // Owned game
}

// Wishlist Model, a game a user wants, at most one row per (user, game) pair
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                    // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_game" json:"user_id"` // Foreign key to User
	GameID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_game" json:"game_id"` // Foreign key to Game
	AddedDate time.Time `json:"added_date"`                                              // When the game was wishlisted

	User *User `json:"user,omitempty"` // Wishing user
	Game *Game `json:"game,omitempty"` // Wished game
}
