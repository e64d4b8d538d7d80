package models

import "time"

// Goal represents a savings goal. Target and Saved are in cents.
type Goal struct {
	Base
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	Name     string     `gorm:"not null" json:"name"`
	Target   int64      `gorm:"type:bigint;not null" json:"target"`
	Saved    int64      `gorm:"type:bigint;not null;default:0" json:"saved"`
	Deadline *time.Time `json:"deadline,omitempty"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
}
