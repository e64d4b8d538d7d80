package models

import "time"

// LimitKind determines which expenses a limit applies to.
type LimitKind string

const (
	// LimitKindCategory applies only to expenses in the referenced category.
	LimitKindCategory LimitKind = "category"
	// LimitKindCard applies only to expenses on the referenced card.
	LimitKindCard LimitKind = "card"
	// LimitKindGeneral applies to all expenses of the owner.
	LimitKindGeneral LimitKind = "general"
	// LimitKindPeriod is a time-boxed ceiling on all expenses, distinguished
	// from general only by its reset-period semantics.
	LimitKindPeriod LimitKind = "period"
)

// LimitPeriod is the reset cadence of a limit.
type LimitPeriod string

const (
	LimitPeriodDaily   LimitPeriod = "daily"
	LimitPeriodWeekly  LimitPeriod = "weekly"
	LimitPeriodMonthly LimitPeriod = "monthly"
	LimitPeriodYearly  LimitPeriod = "yearly"
)

// Limit is a spending ceiling scoped to a category, card, or all spending,
// tracked per reset period. Ceiling and Accrued are in cents. Accrued is
// only ever changed by atomic SQL increments and by resets, never by
// read-modify-write cycles.
type Limit struct {
	Base
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	Name       string      `gorm:"not null" json:"name"`
	Kind       LimitKind   `gorm:"not null" json:"kind"`
	Ceiling    int64       `gorm:"type:bigint;not null" json:"ceiling"`
	Accrued    int64       `gorm:"type:bigint;not null;default:0" json:"accrued"`
	Period     LimitPeriod `gorm:"not null;default:monthly" json:"period"`
	CategoryID *uint       `gorm:"index" json:"category_id,omitempty"`
	CardID     *uint       `gorm:"index" json:"card_id,omitempty"`
	IsActive   bool        `gorm:"default:true" json:"is_active"`
	LastReset  time.Time   `gorm:"not null" json:"last_reset"`
	// NextReset is derived from LastReset + Period and stored so the due
	// sweep can select on it with an index.
	NextReset time.Time `gorm:"not null;index" json:"next_reset"`

	// Alert flags track which thresholds have already fired this reset cycle.
	Alert50Sent  bool `gorm:"column:alert_50_sent;default:false" json:"alert_50_sent"`
	Alert75Sent  bool `gorm:"column:alert_75_sent;default:false" json:"alert_75_sent"`
	Alert90Sent  bool `gorm:"column:alert_90_sent;default:false" json:"alert_90_sent"`
	Alert100Sent bool `gorm:"column:alert_100_sent;default:false" json:"alert_100_sent"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Card     *Card     `gorm:"foreignKey:CardID" json:"card,omitempty"`
}
