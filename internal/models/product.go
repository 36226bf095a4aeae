package models

// InvestmentType is the product category.
type InvestmentType string

const (
	InvestmentTypeBond  InvestmentType = "bond"
	InvestmentTypeFD    InvestmentType = "fd"
	InvestmentTypeMF    InvestmentType = "mf"
	InvestmentTypeETF   InvestmentType = "etf"
	InvestmentTypeOther InvestmentType = "other"
)

// DefaultMinInvestment applies when a product is created without an
// explicit minimum.
const DefaultMinInvestment = 500.0

// InvestmentProduct represents an item in the investment catalog.
type InvestmentProduct struct {
	Base
	Name           string         `gorm:"not null" json:"name"`
	InvestmentType InvestmentType `gorm:"not null" json:"investment_type"`
	TenureMonths   int            `gorm:"not null" json:"tenure_months"`
	AnnualYield    float64        `gorm:"not null" json:"annual_yield"`
	RiskLevel      RiskAppetite   `gorm:"not null;index" json:"risk_level"`
	MinInvestment  float64        `gorm:"not null;default:500" json:"min_investment"`
	MaxInvestment  *float64       `json:"max_investment"`
	Description    string         `json:"description"`
}
