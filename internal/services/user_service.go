package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"strings"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/models"
)

// ProfilePatch enumerates the profile fields a user may change. Present
// (non-nil) fields map deterministically to column assignments; nothing is
// built from raw request keys.
type ProfilePatch struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	RiskAppetite      *models.RiskAppetite
	InvestmentGoal    *string
	MonthlyInvestment *float64
}

// Preferences holds a user's notification settings.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	MarketUpdates      bool `json:"marketUpdates"`
	PortfolioAlerts    bool `json:"portfolioAlerts"`
}

// PreferencesPatch is a partial preferences update.
type PreferencesPatch struct {
	EmailNotifications *bool `json:"emailNotifications"`
	SMSNotifications   *bool `json:"smsNotifications"`
	MarketUpdates      *bool `json:"marketUpdates"`
	PortfolioAlerts    *bool `json:"portfolioAlerts"`
}

// defaultPreferences apply until a user saves their own.
var defaultPreferences = Preferences{
	EmailNotifications: true,
	SMSNotifications:   false,
	MarketUpdates:      true,
	PortfolioAlerts:    true,
}

// TwoFactorSetup is the result of initiating TOTP enrollment.
type TwoFactorSetup struct {
	Secret     string
	OTPAuthURL string
	QRCode     string // PNG data URL
}

const totpIssuer = "Grip Invest"

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Signup registers a new user. The email must not already be registered.
func (s *userService) Signup(email, password, firstName, lastName string, riskAppetite models.RiskAppetite) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if riskAppetite == "" {
		riskAppetite = models.RiskModerate
	}

	user := &models.User{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		RiskAppetite: riskAppetite,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password fail
// identically so callers cannot enumerate accounts.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateProfile applies the present fields of patch and returns the updated user.
func (s *userService) UpdateProfile(userID string, patch ProfilePatch) (*models.User, error) {
	updates := map[string]interface{}{}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		updates["email"] = strings.ToLower(*patch.Email)
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.RiskAppetite != nil {
		updates["risk_appetite"] = *patch.RiskAppetite
	}
	if patch.InvestmentGoal != nil {
		updates["investment_goal"] = *patch.InvestmentGoal
	}
	if patch.MonthlyInvestment != nil {
		updates["monthly_investment"] = *patch.MonthlyInvestment
	}

	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No valid fields to update")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetUserByID(userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return apperrors.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPreferences returns the stored preferences, or the defaults when the
// user never saved any.
func (s *userService) GetPreferences(userID string) (*Preferences, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	prefs := defaultPreferences
	if user.Preferences != "" {
		if err := json.Unmarshal([]byte(user.Preferences), &prefs); err != nil {
			// A corrupt blob falls back to defaults rather than failing the read.
			prefs = defaultPreferences
		}
	}
	return &prefs, nil
}

// SavePreferences merges the patch onto the current preferences and stores
// the result.
func (s *userService) SavePreferences(userID string, patch PreferencesPatch) (*Preferences, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if patch.EmailNotifications != nil {
		prefs.EmailNotifications = *patch.EmailNotifications
	}
	if patch.SMSNotifications != nil {
		prefs.SMSNotifications = *patch.SMSNotifications
	}
	if patch.MarketUpdates != nil {
		prefs.MarketUpdates = *patch.MarketUpdates
	}
	if patch.PortfolioAlerts != nil {
		prefs.PortfolioAlerts = *patch.PortfolioAlerts
	}

	blob, err := json.Marshal(prefs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("preferences", string(blob)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return prefs, nil
}

// SetupTwoFactor generates a TOTP secret and stores it, not yet enabled.
// The QR code is a PNG data URL for authenticator enrollment.
func (s *userService) SetupTwoFactor(userID string) (*TwoFactorSetup, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		SecretSize:  32,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("two_factor_secret", key.Secret()).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &TwoFactorSetup{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyTwoFactor checks a TOTP code against the stored secret and enables
// two-factor auth on success.
func (s *userService) VerifyTwoFactor(userID, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return apperrors.ErrTwoFactorNotSetup
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		return apperrors.ErrTwoFactorCode
	}

	if err := s.db.Model(user).Update("two_factor_enabled", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DisableTwoFactor checks a TOTP code and clears the secret.
func (s *userService) DisableTwoFactor(userID, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return apperrors.ErrTwoFactorNotSetup
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		return apperrors.ErrTwoFactorCode
	}

	updates := map[string]interface{}{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TwoFactorEnabled reports whether the user completed 2FA enrollment.
func (s *userService) TwoFactorEnabled(userID string) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.TwoFactorEnabled, nil
}
