package services

import (
	"gripinvest/internal/models"
	"gripinvest/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Signup(email, password, firstName, lastName string, riskAppetite models.RiskAppetite) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(userID string, patch ProfilePatch) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	GetPreferences(userID string) (*Preferences, error)
	SavePreferences(userID string, patch PreferencesPatch) (*Preferences, error)
	SetupTwoFactor(userID string) (*TwoFactorSetup, error)
	VerifyTwoFactor(userID, code string) error
	DisableTwoFactor(userID, code string) error
	TwoFactorEnabled(userID string) (bool, error)
}

// ProductServicer defines the contract for the investment catalog.
type ProductServicer interface {
	Create(input ProductInput) (*models.InvestmentProduct, error)
	Update(id string, patch ProductPatch) (*models.InvestmentProduct, error)
	Delete(id string) error
	List() ([]models.InvestmentProduct, error)
	GetByID(id string) (*models.InvestmentProduct, error)
	Recommendations(userID string) ([]models.InvestmentProduct, string, error)
}

// InvestmentServicer defines the contract for the investment ledger.
type InvestmentServicer interface {
	Invest(userID, productID string, amount float64) (*models.Investment, error)
	GetPortfolio(userID string) (*Portfolio, error)
}

// TransactionLogServicer defines the contract for the audit trail.
// Record must never propagate a failure to its caller.
type TransactionLogServicer interface {
	Record(entry models.TransactionLog)
	ListUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error)
	ListOwnLogs(userID string) ([]models.TransactionLog, error)
	Summary(userID string) (string, error)
	LoginHistory(userID string) ([]models.TransactionLog, error)
}
