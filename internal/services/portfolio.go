package services

import (
	"gripinvest/internal/advisor"
	"gripinvest/internal/models"
)

// RiskShare is one risk bucket's slice of the portfolio.
type RiskShare struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Portfolio is the aggregate view of a user's investments. All fields are
// derived in-process from the fetched rows; building it has no persistence
// side effects.
type Portfolio struct {
	Total                float64
	Count                int
	Breakdown            map[models.RiskAppetite]float64
	RiskDistribution     map[models.RiskAppetite]RiskShare
	DiversificationScore int
	ExpectedTotalReturn  float64
	AverageReturn        float64
	Investments          []models.Investment
	AISummary            string
}

// riskOrder keeps the advice text deterministic.
var riskOrder = []models.RiskAppetite{models.RiskLow, models.RiskModerate, models.RiskHigh}

// BuildPortfolio aggregates a set of investments: total invested, per-risk
// totals and percentages, diversification score (number of risk buckets
// with nonzero allocation), and expected total/average return.
func BuildPortfolio(investments []models.Investment) Portfolio {
	p := Portfolio{
		Breakdown:        map[models.RiskAppetite]float64{},
		RiskDistribution: map[models.RiskAppetite]RiskShare{},
		Investments:      investments,
		Count:            len(investments),
	}

	for i := range investments {
		inv := &investments[i]
		p.Total += inv.Amount
		p.Breakdown[inv.Product.RiskLevel] += inv.Amount
		p.ExpectedTotalReturn += inv.ExpectedReturn - inv.Amount
	}

	for risk, amount := range p.Breakdown {
		share := RiskShare{Amount: amount}
		if p.Total > 0 {
			share.Percentage = amount / p.Total * 100
		}
		p.RiskDistribution[risk] = share
	}

	p.DiversificationScore = len(p.Breakdown)
	if p.Count > 0 {
		p.AverageReturn = p.ExpectedTotalReturn / float64(p.Count)
	}

	slices := make([]advisor.RiskSlice, 0, len(p.Breakdown))
	for _, risk := range riskOrder {
		if share, ok := p.RiskDistribution[risk]; ok {
			slices = append(slices, advisor.RiskSlice{Risk: string(risk), Percentage: share.Percentage})
		}
	}
	p.AISummary = advisor.PortfolioAdvice(p.Total, slices, p.DiversificationScore, p.AverageReturn)

	return p
}
