package services_test

import (
	"testing"

	"gripinvest/internal/models"
	"gripinvest/internal/services"
	"gripinvest/internal/testutil"
)

func TestExpectedReturn(t *testing.T) {
	tests := []struct {
		amount float64
		yield  float64
		want   float64
	}{
		{10000, 8.5, 10850},
		{500, 0, 500},
		{1000, 100, 2000},
	}
	for _, tt := range tests {
		if got := services.ExpectedReturn(tt.amount, tt.yield); got != tt.want {
			t.Errorf("ExpectedReturn(%v, %v) = %v, want %v", tt.amount, tt.yield, got, tt.want)
		}
	}
}

func TestInvest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewInvestmentService(db)

	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProductWithRisk(t, db, models.RiskModerate, 8.5)

	inv, err := svc.Invest(user.ID, product.ID, 10000)
	testutil.AssertNoError(t, err)

	if inv.ExpectedReturn != 10850 {
		t.Errorf("expected return 10850, got %v", inv.ExpectedReturn)
	}
	if inv.Status != "active" {
		t.Errorf("new investments should be active, got %q", inv.Status)
	}
	if inv.ID == "" {
		t.Error("investment should have an ID assigned")
	}
}

func TestInvestUnknownProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewInvestmentService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := svc.Invest(user.ID, "00000000-0000-0000-0000-000000000000", 1000)
	testutil.AssertAppError(t, err, "USER_OR_PRODUCT_NOT_FOUND")
}

func TestInvestUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewInvestmentService(db)
	product := testutil.CreateTestProduct(t, db)

	_, err := svc.Invest("00000000-0000-0000-0000-000000000000", product.ID, 1000)
	testutil.AssertAppError(t, err, "USER_OR_PRODUCT_NOT_FOUND")
}

func TestGetPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewInvestmentService(db)

	user := testutil.CreateTestUser(t, db)
	low := testutil.CreateTestProductWithRisk(t, db, models.RiskLow, 6.0)
	high := testutil.CreateTestProductWithRisk(t, db, models.RiskHigh, 16.0)

	testutil.CreateTestInvestment(t, db, user, low, 6000)
	testutil.CreateTestInvestment(t, db, user, high, 4000)

	portfolio, err := svc.GetPortfolio(user.ID)
	testutil.AssertNoError(t, err)

	if portfolio.Total != 10000 {
		t.Errorf("expected total 10000, got %v", portfolio.Total)
	}
	if portfolio.Count != 2 {
		t.Errorf("expected 2 investments, got %d", portfolio.Count)
	}
	if portfolio.DiversificationScore != 2 {
		t.Errorf("expected diversification score 2, got %d", portfolio.DiversificationScore)
	}
	// Product metadata must be preloaded for the risk breakdown.
	if portfolio.Breakdown[models.RiskLow] != 6000 {
		t.Errorf("expected 6000 in the low bucket, got %v", portfolio.Breakdown[models.RiskLow])
	}
	if portfolio.AISummary == "" {
		t.Error("portfolio should include an advice summary")
	}
}

func TestGetPortfolioEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewInvestmentService(db)
	user := testutil.CreateTestUser(t, db)

	portfolio, err := svc.GetPortfolio(user.ID)
	testutil.AssertNoError(t, err)

	if portfolio.Total != 0 || portfolio.Count != 0 {
		t.Errorf("empty portfolio should be zeroed, got total=%v count=%d", portfolio.Total, portfolio.Count)
	}
	if portfolio.AverageReturn != 0 {
		t.Errorf("average return of an empty portfolio should be 0, got %v", portfolio.AverageReturn)
	}
}
