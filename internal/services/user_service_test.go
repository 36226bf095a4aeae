package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"gripinvest/internal/models"
	"gripinvest/internal/services"
	"gripinvest/internal/testutil"
)

func TestSignup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)

	user, err := svc.Signup("Alice@Example.com", "Str0ng!Pass", "Alice", "Smith", "")
	testutil.AssertNoError(t, err)

	if user.Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", user.Email)
	}
	if user.RiskAppetite != models.RiskModerate {
		t.Errorf("risk appetite should default to moderate, got %q", user.RiskAppetite)
	}
	if user.PasswordHash == "Str0ng!Pass" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if user.ID == "" {
		t.Error("user should have an ID assigned")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)

	_, err := svc.Signup("a@b.com", "Str0ng!Pass", "A", "B", "")
	testutil.AssertNoError(t, err)

	// Same email with different case still collides.
	_, err = svc.Signup("A@B.com", "Other!Pass1", "A", "B", "")
	testutil.AssertAppError(t, err, "EMAIL_TAKEN")
}

func TestSignupMissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)

	_, err := svc.Signup("", "Str0ng!Pass", "A", "B", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.Signup("a@b.com", "", "A", "B", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)

	created, err := svc.Signup("a@b.com", "Str0ng!Pass", "A", "B", models.RiskHigh)
	testutil.AssertNoError(t, err)

	user, err := svc.Authenticate("a@b.com", "Str0ng!Pass")
	testutil.AssertNoError(t, err)
	if user.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID, user.ID)
	}

	// Wrong password and unknown email fail with the same error.
	_, err = svc.Authenticate("a@b.com", "wrong")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

	_, err = svc.Authenticate("nobody@b.com", "Str0ng!Pass")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	firstName := "Updated"
	goal := "retirement"
	monthly := 2500.0
	risk := models.RiskHigh
	updated, err := svc.UpdateProfile(user.ID, services.ProfilePatch{
		FirstName:         &firstName,
		InvestmentGoal:    &goal,
		MonthlyInvestment: &monthly,
		RiskAppetite:      &risk,
	})
	testutil.AssertNoError(t, err)

	if updated.FirstName != "Updated" {
		t.Errorf("expected first name Updated, got %q", updated.FirstName)
	}
	if updated.InvestmentGoal != "retirement" {
		t.Errorf("expected goal retirement, got %q", updated.InvestmentGoal)
	}
	if updated.MonthlyInvestment == nil || *updated.MonthlyInvestment != 2500.0 {
		t.Errorf("expected monthly investment 2500, got %v", updated.MonthlyInvestment)
	}
	if updated.RiskAppetite != models.RiskHigh {
		t.Errorf("expected risk high, got %q", updated.RiskAppetite)
	}
	// Untouched fields survive.
	if updated.Email != user.Email {
		t.Errorf("email should be unchanged, got %q", updated.Email)
	}
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := svc.UpdateProfile(user.ID, services.ProfilePatch{})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	err := svc.ChangePassword(user.ID, "not-the-password", "New!Pass123")
	testutil.AssertAppError(t, err, "WRONG_PASSWORD")

	err = svc.ChangePassword(user.ID, testutil.TestPassword, "New!Pass123")
	testutil.AssertNoError(t, err)

	_, err = svc.Authenticate(user.Email, "New!Pass123")
	testutil.AssertNoError(t, err)

	_, err = svc.Authenticate(user.Email, testutil.TestPassword)
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestPreferencesDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	prefs, err := svc.GetPreferences(user.ID)
	testutil.AssertNoError(t, err)

	if !prefs.EmailNotifications || prefs.SMSNotifications || !prefs.MarketUpdates || !prefs.PortfolioAlerts {
		t.Errorf("unexpected defaults: %+v", prefs)
	}
}

func TestSavePreferencesMerges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	sms := true
	saved, err := svc.SavePreferences(user.ID, services.PreferencesPatch{SMSNotifications: &sms})
	testutil.AssertNoError(t, err)
	if !saved.SMSNotifications {
		t.Error("sms notifications should be enabled after save")
	}
	if !saved.EmailNotifications {
		t.Error("unpatched fields should keep their defaults")
	}

	// A second partial save keeps the earlier change.
	market := false
	saved, err = svc.SavePreferences(user.ID, services.PreferencesPatch{MarketUpdates: &market})
	testutil.AssertNoError(t, err)
	if !saved.SMSNotifications {
		t.Error("earlier change should survive a later partial save")
	}
	if saved.MarketUpdates {
		t.Error("market updates should be disabled")
	}
}

func TestTwoFactorLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := services.NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	// Verify before setup fails.
	err := svc.VerifyTwoFactor(user.ID, "000000")
	testutil.AssertAppError(t, err, "2FA_NOT_SETUP")

	setup, err := svc.SetupTwoFactor(user.ID)
	testutil.AssertNoError(t, err)
	if setup.Secret == "" {
		t.Fatal("setup should return a secret")
	}
	if !strings.HasPrefix(setup.QRCode, "data:image/png;base64,") {
		t.Error("QR code should be a PNG data URL")
	}

	// Not enabled until verified.
	enabled, err := svc.TwoFactorEnabled(user.ID)
	testutil.AssertNoError(t, err)
	if enabled {
		t.Error("2FA should not be enabled before verification")
	}

	err = svc.VerifyTwoFactor(user.ID, "000000")
	testutil.AssertAppError(t, err, "2FA_INVALID_CODE")

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	testutil.AssertNoError(t, err)
	err = svc.VerifyTwoFactor(user.ID, code)
	testutil.AssertNoError(t, err)

	enabled, err = svc.TwoFactorEnabled(user.ID)
	testutil.AssertNoError(t, err)
	if !enabled {
		t.Error("2FA should be enabled after verification")
	}

	// Disable requires a fresh valid code and clears the secret.
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	testutil.AssertNoError(t, err)
	err = svc.DisableTwoFactor(user.ID, code)
	testutil.AssertNoError(t, err)

	err = svc.VerifyTwoFactor(user.ID, code)
	testutil.AssertAppError(t, err, "2FA_NOT_SETUP")
}
