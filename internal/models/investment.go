package models

import "time"

// Investment records a single purchase of a product by a user. Rows are
// immutable after creation: the expected return is computed once from the
// product yield at invest time and stored, never recomputed.
type Investment struct {
	Base
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID      string     `gorm:"type:uuid;not null" json:"product_id"`
	Amount         float64    `gorm:"not null" json:"amount"`
	ExpectedReturn float64    `gorm:"not null" json:"expected_return"`
	InvestedAt     time.Time  `gorm:"autoCreateTime" json:"invested_at"`
	Status         string     `gorm:"not null;default:active" json:"status"`
	MaturityDate   *time.Time `json:"maturity_date"`

	Product InvestmentProduct `gorm:"foreignKey:ProductID" json:"product"`
}
