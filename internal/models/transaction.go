package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus represents the lifecycle state of a transaction.
// Only confirmed transactions count toward limit accrual and reports.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents a financial transaction in the system.
// Amount is stored in cents.
type Transaction struct {
	Base
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint             `gorm:"index" json:"category_id,omitempty"`
	CardID      *uint             `gorm:"index" json:"card_id,omitempty"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Status      TransactionStatus `gorm:"not null;default:confirmed" json:"status"`
	Amount      int64             `gorm:"type:bigint;not null" json:"amount"`
	Description string            `json:"description"`
	Date        time.Time         `gorm:"not null;index" json:"date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Card     *Card     `gorm:"foreignKey:CardID" json:"card,omitempty"`
}
