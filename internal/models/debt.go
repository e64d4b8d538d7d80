package models

import "time"

// DebtStatus represents the repayment state of a debt.
type DebtStatus string

const (
	DebtStatusOpen    DebtStatus = "open"
	DebtStatusPaid    DebtStatus = "paid"
	DebtStatusOverdue DebtStatus = "overdue"
)

// Debt represents money owed to a creditor. Total and Paid are in cents.
type Debt struct {
	Base
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	Creditor string     `gorm:"not null" json:"creditor"`
	Total    int64      `gorm:"type:bigint;not null" json:"total"`
	Paid     int64      `gorm:"type:bigint;not null;default:0" json:"paid"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Status   DebtStatus `gorm:"not null;default:open" json:"status"`
	Notes    string     `json:"notes"`
}
