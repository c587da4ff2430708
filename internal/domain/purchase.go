package domain

import "time"

// Payment statuses
const (
	PaymentPending           = "Pending"
	PaymentCompleted         = "Completed"
	PaymentFailed            = "Failed"
	PaymentRefunded          = "Refunded"
	PaymentPartiallyRefunded = "Partially Refunded"
)

// Purchase Model, one per (user, game) pair, enforced at the application layer
type Purchase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`            // Primary key
	UserID       uint      `gorm:"index;not null" json:"user_id"`   // Foreign key to User
	GameID       uint      `gorm:"index;not null" json:"game_id"`   // Foreign key to Game
	PurchaseDate time.Time `json:"purchase_date"`                   // When the purchase was made

	User *User `json:"user,omitempty"` // Buying user
	Game *Game `json:"game,omitempty"` // Purchased game

	Payments []Payment `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"` // Payment attempts, removed with the purchase
}

// Payment Model, a monetary transaction attempt tied to a Purchase
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                // Primary key
	PurchaseID    uint      `gorm:"index;not null" json:"purchase_id"`   // Foreign key to Purchase
	PaymentMethod string    `gorm:"size:64" json:"payment_method"`       // e.g. credit_card, paypal
	Amount        float64   `gorm:"not null" json:"amount"`              // Charged amount
	PaymentDate   time.Time `json:"payment_date"`                        // When the payment was attempted
	Status        string    `gorm:"size:32;not null" json:"status"`      // Pending, Completed, Failed, Refunded, Partially Refunded
	TransactionID string    `gorm:"size:64" json:"transaction_id"`       // Gateway transaction reference

	Purchase *Purchase `json:"purchase,omitempty"` // Owning purchase
}
