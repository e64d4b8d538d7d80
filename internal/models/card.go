package models

// Card represents a credit card registered by a user.
// ClosingDay and DueDay are days of the month (1-31).
type Card struct {
	Base
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Name       string `gorm:"not null" json:"name"`
	Brand      string `json:"brand"`
	LastDigits string `gorm:"size:4" json:"last_digits"`
	// CreditLimit is the card's credit ceiling in cents.
	CreditLimit int64 `gorm:"type:bigint" json:"credit_limit"`
	ClosingDay  int   `json:"closing_day"`
	DueDay      int   `json:"due_day"`
	IsActive    bool  `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:CardID" json:"transactions,omitempty"`
}
