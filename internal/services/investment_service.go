package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/models"
)

// investmentService handles the investment ledger.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// ExpectedReturn is the principal plus simple annual yield, applied once at
// invest time. The result is stored with the investment and never
// recomputed.
func ExpectedReturn(amount, annualYield float64) float64 {
	return amount + amount*annualYield/100
}

// Invest records a new investment for the user. Both the user and the
// product must exist at creation time; the pre-check failure is reported as
// one combined not-found error.
func (s *investmentService) Invest(userID, productID string, amount float64) (*models.Investment, error) {
	var userCount int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var product models.InvestmentProduct
	err := s.db.Select("id", "annual_yield").First(&product, "id = ?", productID).Error
	if userCount == 0 || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserOrProductNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	investment := &models.Investment{
		UserID:         userID,
		ProductID:      productID,
		Amount:         amount,
		ExpectedReturn: ExpectedReturn(amount, product.AnnualYield),
		Status:         "active",
	}
	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// GetPortfolio loads the user's investments with product metadata and
// aggregates them in-process.
func (s *investmentService) GetPortfolio(userID string) (*Portfolio, error) {
	var investments []models.Investment
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("invested_at DESC").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	portfolio := BuildPortfolio(investments)
	return &portfolio, nil
}
