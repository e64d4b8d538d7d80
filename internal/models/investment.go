package models

import "time"

// InvestmentKind classifies an investment holding.
type InvestmentKind string

const (
	InvestmentKindStock       InvestmentKind = "stock"
	InvestmentKindFund        InvestmentKind = "fund"
	InvestmentKindFixedIncome InvestmentKind = "fixed_income"
	InvestmentKindCrypto      InvestmentKind = "crypto"
	InvestmentKindOther       InvestmentKind = "other"
)

// Investment represents a holding with a manually tracked valuation.
// Invested and CurrentValue are in cents.
type Investment struct {
	Base
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Name         string         `gorm:"not null" json:"name"`
	Kind         InvestmentKind `gorm:"not null" json:"kind"`
	Invested     int64          `gorm:"type:bigint;not null" json:"invested"`
	CurrentValue int64          `gorm:"type:bigint;not null" json:"current_value"`
	ValuedAt     time.Time      `json:"valued_at"`
}
