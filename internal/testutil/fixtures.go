package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gripinvest/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", nextID()),
		RiskAppetite: models.RiskModerate,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProduct creates a moderate-risk product with a 10% yield.
func CreateTestProduct(t *testing.T, db *gorm.DB) *models.InvestmentProduct {
	t.Helper()
	return CreateTestProductWithRisk(t, db, models.RiskModerate, 10.0)
}

// CreateTestProductWithRisk creates a product with the given risk level and yield.
func CreateTestProductWithRisk(t *testing.T, db *gorm.DB, risk models.RiskAppetite, yield float64) *models.InvestmentProduct {
	t.Helper()

	product := &models.InvestmentProduct{
		Name:           fmt.Sprintf("Test Product %d", nextID()),
		InvestmentType: models.InvestmentTypeMF,
		TenureMonths:   12,
		AnnualYield:    yield,
		RiskLevel:      risk,
		MinInvestment:  models.DefaultMinInvestment,
		Description:    "A test product",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestInvestment creates an investment of the given amount, with the
// expected return computed from the product yield.
func CreateTestInvestment(t *testing.T, db *gorm.DB, user *models.User, product *models.InvestmentProduct, amount float64) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		UserID:         user.ID,
		ProductID:      product.ID,
		Amount:         amount,
		ExpectedReturn: amount + amount*product.AnnualYield/100,
		Status:         "active",
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestLog creates one audit row for the given user.
func CreateTestLog(t *testing.T, db *gorm.DB, user *models.User, endpoint, method string, status int) *models.TransactionLog {
	t.Helper()

	entry := &models.TransactionLog{
		UserID:     &user.ID,
		Email:      &user.Email,
		Endpoint:   endpoint,
		HTTPMethod: method,
		StatusCode: status,
	}
	if status >= 400 {
		msg := fmt.Sprintf("%s %s failed in 1ms", method, endpoint)
		entry.ErrorMessage = &msg
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	return entry
}
