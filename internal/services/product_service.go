package services

import (
	"errors"

	"gorm.io/gorm"

	"gripinvest/internal/advisor"
	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/models"
)

// ProductInput holds the fields for creating a catalog product. Description
// is synthesized when absent; MinInvestment defaults to 500.
type ProductInput struct {
	Name           string
	InvestmentType models.InvestmentType
	TenureMonths   int
	AnnualYield    float64
	RiskLevel      models.RiskAppetite
	MinInvestment  *float64
	MaxInvestment  *float64
	Description    string
}

// ProductPatch enumerates the updatable product fields.
type ProductPatch struct {
	Name           *string
	InvestmentType *models.InvestmentType
	TenureMonths   *int
	AnnualYield    *float64
	RiskLevel      *models.RiskAppetite
	MinInvestment  *float64
	MaxInvestment  *float64
	Description    *string
}

// riskAppetiteMatches maps a user's risk appetite to the product risk
// levels recommended for it.
var riskAppetiteMatches = map[models.RiskAppetite][]models.RiskAppetite{
	models.RiskLow:      {models.RiskLow},
	models.RiskModerate: {models.RiskLow, models.RiskModerate},
	models.RiskHigh:     {models.RiskModerate, models.RiskHigh},
}

const recommendationLimit = 10

// productService handles the investment catalog.
type productService struct {
	db *gorm.DB
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB) ProductServicer {
	return &productService{db: db}
}

// Create inserts a new product, filling in the description and minimum
// investment when the caller left them out.
func (s *productService) Create(input ProductInput) (*models.InvestmentProduct, error) {
	description := input.Description
	if description == "" {
		description = advisor.ProductDescription(input.Name, string(input.InvestmentType), string(input.RiskLevel))
	}

	minInvestment := models.DefaultMinInvestment
	if input.MinInvestment != nil {
		minInvestment = *input.MinInvestment
	}

	product := &models.InvestmentProduct{
		Name:           input.Name,
		InvestmentType: input.InvestmentType,
		TenureMonths:   input.TenureMonths,
		AnnualYield:    input.AnnualYield,
		RiskLevel:      input.RiskLevel,
		MinInvestment:  minInvestment,
		MaxInvestment:  input.MaxInvestment,
		Description:    description,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// Update applies the present fields of patch and returns the updated
// product. An empty patch is a no-op read.
func (s *productService) Update(id string, patch ProductPatch) (*models.InvestmentProduct, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.InvestmentType != nil {
		updates["investment_type"] = *patch.InvestmentType
	}
	if patch.TenureMonths != nil {
		updates["tenure_months"] = *patch.TenureMonths
	}
	if patch.AnnualYield != nil {
		updates["annual_yield"] = *patch.AnnualYield
	}
	if patch.RiskLevel != nil {
		updates["risk_level"] = *patch.RiskLevel
	}
	if patch.MinInvestment != nil {
		updates["min_investment"] = *patch.MinInvestment
	}
	if patch.MaxInvestment != nil {
		updates["max_investment"] = *patch.MaxInvestment
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(id)
}

// Delete removes a product from the catalog. Deleting an absent product is
// not an error.
func (s *productService) Delete(id string) error {
	if err := s.db.Delete(&models.InvestmentProduct{}, "id = ?", id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// List returns the catalog, newest first.
func (s *productService) List() ([]models.InvestmentProduct, error) {
	var products []models.InvestmentProduct
	if err := s.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// GetByID retrieves a single product.
func (s *productService) GetByID(id string) (*models.InvestmentProduct, error) {
	var product models.InvestmentProduct
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// Recommendations returns up to ten products whose risk level matches the
// user's risk appetite, plus a one-line rationale.
func (s *productService) Recommendations(userID string) ([]models.InvestmentProduct, string, error) {
	var user models.User
	if err := s.db.Select("risk_appetite").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	risks, ok := riskAppetiteMatches[user.RiskAppetite]
	if !ok {
		risks = []models.RiskAppetite{models.RiskLow, models.RiskModerate}
	}

	var products []models.InvestmentProduct
	if err := s.db.Where("risk_level IN ?", risks).Limit(recommendationLimit).Find(&products).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rationale := "Based on your " + string(user.RiskAppetite) + " risk appetite"
	return products, rationale, nil
}
