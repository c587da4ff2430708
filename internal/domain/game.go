package domain

// DefaultGamePrice is charged when a game has no price set
const DefaultGamePrice = 59.99

// Game Model
type Game struct {
	ID          uint    `gorm:"primaryKey" json:"id"`            // Primary key
	DeveloperID uint    `gorm:"index;not null" json:"developer_id"` // Foreign key to Developer
	Title       string  `gorm:"size:255;not null" json:"title"`  // Game title
	Description string  `json:"description"`                     // Game description
	CoverImage  string  `gorm:"size:255" json:"cover_image"`     // Cover image reference
	Price       float64 `gorm:"not null;default:0" json:"price"` // List price, zero means DefaultGamePrice

	Developer *Developer `json:"developer,omitempty"` // Owning studio

	Libraries   []Library    `gorm:"constraint:OnDelete:RESTRICT" json:"libraries,omitempty"`   // Library rows referencing the game, block deletion
	Wishlists   []Wishlist   `gorm:"constraint:OnDelete:RESTRICT" json:"wishlists,omitempty"`   // Wishlist rows referencing the game, block deletion
	Purchases   []Purchase   `gorm:"constraint:OnDelete:RESTRICT" json:"purchases,omitempty"`   // Purchases referencing the game, block deletion
	GameReviews []GameReview `gorm:"constraint:OnDelete:CASCADE" json:"game_reviews,omitempty"` // Reviews, removed with the game
}

// GameReview Model, at most one review per (user, game) pair
type GameReview struct {
	ID     uint `gorm:"primaryKey" json:"id"`                               // Primary key
	UserID uint `gorm:"not null;uniqueIndex:idx_review_user_game" json:"user_id"` // Foreign key to User
	GameID uint `gorm:"not null;uniqueIndex:idx_review_user_game" json:"game_id"` // Foreign key to Game
	Rating int  `gorm:"not null" json:"rating"`                             // Rating, 1 to 5 inclusive

	User *User `json:"user,omitempty"` // Review author
	Game *Game `json:"game,omitempty"` // Reviewed game
}
