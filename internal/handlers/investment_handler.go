package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gripinvest/internal/models"
	"gripinvest/internal/services"
)

// InvestmentHandler handles investment ledger requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// InvestRequest represents the invest payload.
type InvestRequest struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// InvestmentResponse is the public investment shape.
type InvestmentResponse struct {
	ID             string          `json:"id"`
	Amount         float64         `json:"amount"`
	ExpectedReturn float64         `json:"expectedReturn"`
	InvestedAt     time.Time       `json:"investedAt"`
	Status         string          `json:"status"`
	MaturityDate   *time.Time      `json:"maturityDate"`
	Product        ProductResponse `json:"product"`
}

func newInvestmentResponse(inv *models.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:             inv.ID,
		Amount:         inv.Amount,
		ExpectedReturn: inv.ExpectedReturn,
		InvestedAt:     inv.InvestedAt,
		Status:         inv.Status,
		MaturityDate:   inv.MaturityDate,
		Product:        newProductResponse(&inv.Product),
	}
}

// Invest records a new investment for the caller.
// @Summary     Make an investment
// @Tags        investments
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body InvestRequest true "Product and amount"
// @Success     201 {object} map[string]interface{} "Confirmation with expected return"
// @Failure     400 {object} map[string]interface{}
// @Failure     404 {object} map[string]interface{} "User or product not found"
// @Router      /api/investments [post]
func (h *InvestmentHandler) Invest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	investment, err := h.investmentService.Invest(userID, req.ProductID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Investment successful",
		"id":             investment.ID,
		"amount":         investment.Amount,
		"expectedReturn": investment.ExpectedReturn,
	})
}

// Portfolio returns the caller's holdings with aggregates and advice.
// @Summary     Get portfolio
// @Tags        investments
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Aggregated portfolio"
// @Router      /api/investments/portfolio [get]
func (h *InvestmentHandler) Portfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.investmentService.GetPortfolio(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investments := make([]InvestmentResponse, 0, len(portfolio.Investments))
	for i := range portfolio.Investments {
		investments = append(investments, newInvestmentResponse(&portfolio.Investments[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":                portfolio.Total,
		"count":                portfolio.Count,
		"breakdown":            portfolio.Breakdown,
		"riskDistribution":     portfolio.RiskDistribution,
		"diversificationScore": portfolio.DiversificationScore,
		"expectedTotalReturn":  portfolio.ExpectedTotalReturn,
		"averageReturn":        portfolio.AverageReturn,
		"investments":          investments,
		"ai_summary":           portfolio.AISummary,
	})
}
