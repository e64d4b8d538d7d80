package models

// FixedExpense represents a recurring monthly expense such as rent or a
// subscription. Amount is in cents; DueDay is a day of the month (1-31).
type FixedExpense struct {
	Base
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Name       string `gorm:"not null" json:"name"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`
	DueDay     int    `gorm:"not null" json:"due_day"`
	CategoryID *uint  `gorm:"index" json:"category_id,omitempty"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
