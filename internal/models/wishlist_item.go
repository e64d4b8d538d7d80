package models

// WishlistItem represents a desired purchase with savings tracking.
// Price and Saved are in cents. Priority 1 is highest.
type WishlistItem struct {
	Base
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`
	Price     int64  `gorm:"type:bigint;not null" json:"price"`
	Saved     int64  `gorm:"type:bigint;not null;default:0" json:"saved"`
	Priority  int    `gorm:"default:3" json:"priority"`
	Link      string `json:"link"`
	Purchased bool   `gorm:"default:false" json:"purchased"`
}
