package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gripinvest/internal/models"
	"gripinvest/internal/services"
)

// ProductHandler handles investment catalog requests.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents the create-product payload.
type CreateProductRequest struct {
	Name           string   `json:"name" binding:"required,max=255"`
	InvestmentType string   `json:"investmentType" binding:"required,investment_type"`
	TenureMonths   int      `json:"tenureMonths" binding:"required,gt=0"`
	AnnualYield    float64  `json:"annualYield" binding:"required,gte=0"`
	RiskLevel      string   `json:"riskLevel" binding:"required,risk_level"`
	MinInvestment  *float64 `json:"minInvestment" binding:"omitempty,gt=0"`
	MaxInvestment  *float64 `json:"maxInvestment" binding:"omitempty,gt=0"`
	Description    string   `json:"description"`
}

// UpdateProductRequest represents a partial product update.
type UpdateProductRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=255"`
	InvestmentType *string  `json:"investmentType" binding:"omitempty,investment_type"`
	TenureMonths   *int     `json:"tenureMonths" binding:"omitempty,gt=0"`
	AnnualYield    *float64 `json:"annualYield" binding:"omitempty,gte=0"`
	RiskLevel      *string  `json:"riskLevel" binding:"omitempty,risk_level"`
	MinInvestment  *float64 `json:"minInvestment" binding:"omitempty,gt=0"`
	MaxInvestment  *float64 `json:"maxInvestment" binding:"omitempty,gt=0"`
	Description    *string  `json:"description"`
}

// ProductResponse is the public product shape.
type ProductResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	InvestmentType string    `json:"investmentType"`
	TenureMonths   int       `json:"tenureMonths"`
	AnnualYield    float64   `json:"annualYield"`
	RiskLevel      string    `json:"riskLevel"`
	MinInvestment  float64   `json:"minInvestment"`
	MaxInvestment  *float64  `json:"maxInvestment"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newProductResponse(p *models.InvestmentProduct) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		InvestmentType: string(p.InvestmentType),
		TenureMonths:   p.TenureMonths,
		AnnualYield:    p.AnnualYield,
		RiskLevel:      string(p.RiskLevel),
		MinInvestment:  p.MinInvestment,
		MaxInvestment:  p.MaxInvestment,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func newProductResponses(products []models.InvestmentProduct) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}
	return out
}

// Create adds a product to the catalog.
// @Summary     Create a product
// @Tags        products
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body CreateProductRequest true "Product data"
// @Success     201 {object} ProductResponse
// @Failure     400 {object} map[string]interface{}
// @Router      /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	product, err := h.productService.Create(services.ProductInput{
		Name:           req.Name,
		InvestmentType: models.InvestmentType(req.InvestmentType),
		TenureMonths:   req.TenureMonths,
		AnnualYield:    req.AnnualYield,
		RiskLevel:      models.RiskAppetite(req.RiskLevel),
		MinInvestment:  req.MinInvestment,
		MaxInvestment:  req.MaxInvestment,
		Description:    req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProductResponse(product))
}

// Update applies a partial update to a product.
// @Summary     Update a product
// @Tags        products
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Product ID"
// @Param       request body UpdateProductRequest true "Fields to update"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} map[string]interface{} "Product not found"
// @Router      /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	patch := services.ProductPatch{
		Name:          req.Name,
		TenureMonths:  req.TenureMonths,
		AnnualYield:   req.AnnualYield,
		MinInvestment: req.MinInvestment,
		MaxInvestment: req.MaxInvestment,
		Description:   req.Description,
	}
	if req.InvestmentType != nil {
		t := models.InvestmentType(*req.InvestmentType)
		patch.InvestmentType = &t
	}
	if req.RiskLevel != nil {
		r := models.RiskAppetite(*req.RiskLevel)
		patch.RiskLevel = &r
	}

	product, err := h.productService.Update(c.Param("id"), patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProductResponse(product))
}

// Delete removes a product from the catalog.
// @Summary     Delete a product
// @Tags        products
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     204 "No Content"
// @Router      /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns the full catalog, newest first.
// @Summary     List products
// @Tags        products
// @Security    BearerAuth
// @Produce     json
// @Success     200 {array} ProductResponse
// @Router      /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponses(products))
}

// GetByID returns a single product.
// @Summary     Get a product
// @Tags        products
// @Security    BearerAuth
// @Produce     json
// @Param       id path string true "Product ID"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} map[string]interface{} "Product not found"
// @Router      /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

// Recommendations returns catalog products matched to the caller's risk
// appetite, with a one-line rationale.
// @Summary     Personalized product recommendations
// @Tags        products
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Products and rationale"
// @Router      /api/products/recommendations [get]
func (h *ProductHandler) Recommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	products, rationale, err := h.productService.Recommendations(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  newProductResponses(products),
		"rationale": rationale,
	})
}
