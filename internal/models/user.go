package models

// RiskAppetite categorizes how much volatility a user is willing to accept.
// It drives product recommendation filtering.
type RiskAppetite string

const (
	RiskLow      RiskAppetite = "low"
	RiskModerate RiskAppetite = "moderate"
	RiskHigh     RiskAppetite = "high"
)

// User represents an account holder. Users are never hard-deleted.
type User struct {
	Base
	Email             string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string       `gorm:"not null" json:"-"`
	FirstName         string       `gorm:"not null" json:"first_name"`
	LastName          string       `json:"last_name"`
	Phone             string       `json:"phone"`
	RiskAppetite      RiskAppetite `gorm:"not null;default:moderate" json:"risk_appetite"`
	InvestmentGoal    string       `json:"investment_goal"`
	MonthlyInvestment *float64     `json:"monthly_investment,omitempty"`
	TwoFactorSecret   string       `json:"-"`
	TwoFactorEnabled  bool         `gorm:"default:false" json:"-"`
	// Preferences holds a JSON blob of notification settings.
	Preferences string `json:"-"`
}
