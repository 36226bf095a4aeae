package services_test

import (
	"strings"
	"testing"

	"gripinvest/internal/models"
	"gripinvest/internal/services"
	"gripinvest/internal/testutil"
)

func TestCreateProductDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	product, err := svc.Create(services.ProductInput{
		Name:           "Gold ETF",
		InvestmentType: models.InvestmentTypeETF,
		TenureMonths:   0,
		AnnualYield:    6.0,
		RiskLevel:      models.RiskLow,
	})
	testutil.AssertNoError(t, err)

	if product.MinInvestment != models.DefaultMinInvestment {
		t.Errorf("min investment should default to %v, got %v", models.DefaultMinInvestment, product.MinInvestment)
	}
	if !strings.HasPrefix(product.Description, "Gold ETF is a") {
		t.Errorf("description should be synthesized when absent, got %q", product.Description)
	}
}

func TestCreateProductExplicitFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	minInv := 1000.0
	maxInv := 50000.0
	product, err := svc.Create(services.ProductInput{
		Name:           "Corporate Bond AAA 5Y",
		InvestmentType: models.InvestmentTypeBond,
		TenureMonths:   60,
		AnnualYield:    8.5,
		RiskLevel:      models.RiskLow,
		MinInvestment:  &minInv,
		MaxInvestment:  &maxInv,
		Description:    "A bond.",
	})
	testutil.AssertNoError(t, err)

	if product.MinInvestment != 1000.0 {
		t.Errorf("expected explicit min investment, got %v", product.MinInvestment)
	}
	if product.Description != "A bond." {
		t.Errorf("explicit description should win, got %q", product.Description)
	}
}

func TestUpdateProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)
	product := testutil.CreateTestProduct(t, db)

	yield := 12.5
	name := "Renamed Fund"
	updated, err := svc.Update(product.ID, services.ProductPatch{
		AnnualYield: &yield,
		Name:        &name,
	})
	testutil.AssertNoError(t, err)

	if updated.AnnualYield != 12.5 {
		t.Errorf("expected yield 12.5, got %v", updated.AnnualYield)
	}
	if updated.Name != "Renamed Fund" {
		t.Errorf("expected renamed product, got %q", updated.Name)
	}
	if updated.RiskLevel != product.RiskLevel {
		t.Errorf("untouched field should survive, got %q", updated.RiskLevel)
	}
}

func TestUpdateProductEmptyPatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)
	product := testutil.CreateTestProduct(t, db)

	updated, err := svc.Update(product.ID, services.ProductPatch{})
	testutil.AssertNoError(t, err)
	if updated.ID != product.ID {
		t.Errorf("empty patch should return the product unchanged")
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	name := "ghost"
	_, err := svc.Update("00000000-0000-0000-0000-000000000000", services.ProductPatch{Name: &name})
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestDeleteProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)
	product := testutil.CreateTestProduct(t, db)

	testutil.AssertNoError(t, svc.Delete(product.ID))

	_, err := svc.GetByID(product.ID)
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")

	// Deleting again is not an error.
	testutil.AssertNoError(t, svc.Delete(product.ID))
}

func TestListProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	testutil.CreateTestProduct(t, db)
	testutil.CreateTestProduct(t, db)

	products, err := svc.List()
	testutil.AssertNoError(t, err)
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}
}

func TestRecommendationsByRiskAppetite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	low := testutil.CreateTestProductWithRisk(t, db, models.RiskLow, 6.0)
	moderate := testutil.CreateTestProductWithRisk(t, db, models.RiskModerate, 10.0)
	high := testutil.CreateTestProductWithRisk(t, db, models.RiskHigh, 16.0)

	tests := []struct {
		appetite models.RiskAppetite
		wantIDs  map[string]bool
	}{
		{models.RiskLow, map[string]bool{low.ID: true}},
		{models.RiskModerate, map[string]bool{low.ID: true, moderate.ID: true}},
		{models.RiskHigh, map[string]bool{moderate.ID: true, high.ID: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.appetite), func(t *testing.T) {
			user := testutil.CreateTestUser(t, db)
			if err := db.Model(user).Update("risk_appetite", tt.appetite).Error; err != nil {
				t.Fatalf("failed to set risk appetite: %v", err)
			}

			products, rationale, err := svc.Recommendations(user.ID)
			testutil.AssertNoError(t, err)

			if len(products) != len(tt.wantIDs) {
				t.Fatalf("expected %d products, got %d", len(tt.wantIDs), len(products))
			}
			for _, p := range products {
				if !tt.wantIDs[p.ID] {
					t.Errorf("product %s (%s) should not be recommended for %s", p.Name, p.RiskLevel, tt.appetite)
				}
			}
			want := "Based on your " + string(tt.appetite) + " risk appetite"
			if rationale != want {
				t.Errorf("expected rationale %q, got %q", want, rationale)
			}
		})
	}
}

func TestRecommendationsUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)

	_, _, err := svc.Recommendations("00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestRecommendationsLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewProductService(db)
	user := testutil.CreateTestUser(t, db)

	for i := 0; i < 15; i++ {
		testutil.CreateTestProductWithRisk(t, db, models.RiskModerate, 10.0)
	}

	products, _, err := svc.Recommendations(user.ID)
	testutil.AssertNoError(t, err)
	if len(products) != 10 {
		t.Errorf("recommendations should be capped at 10, got %d", len(products))
	}
}
