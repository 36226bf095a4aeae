package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"gripinvest/internal/advisor"
	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/middleware"
	"gripinvest/internal/models"
	"gripinvest/internal/services"
)

// AuthHandler handles authentication and profile requests.
type AuthHandler struct {
	userService  services.UserServicer
	txlogService services.TransactionLogServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, txlogService services.TransactionLogServicer) *AuthHandler {
	return &AuthHandler{userService: userService, txlogService: txlogService}
}

// SignupRequest represents the signup request payload.
type SignupRequest struct {
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"omitempty,max=100"`
	RiskAppetite string `json:"riskAppetite" binding:"omitempty,risk_level"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public user shape.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	RiskAppetite string `json:"riskAppetite"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		RiskAppetite: string(user.RiskAppetite),
	}
}

// ProfileResponse is the extended profile shape for /auth/me.
type ProfileResponse struct {
	ID                string   `json:"id"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Phone             string   `json:"phone"`
	RiskAppetite      string   `json:"riskAppetite"`
	InvestmentGoal    string   `json:"investmentGoal"`
	MonthlyInvestment *float64 `json:"monthlyInvestment"`
}

func newProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Phone:             user.Phone,
		RiskAppetite:      string(user.RiskAppetite),
		InvestmentGoal:    user.InvestmentGoal,
		MonthlyInvestment: user.MonthlyInvestment,
	}
}

// Signup handles user registration.
// @Summary     Register a new user
// @Description Register with email and password; responds with a session token and password feedback
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "User registration data"
// @Success     200 {object} map[string]interface{} "Token, user, and ai_feedback"
// @Failure     400 {object} map[string]interface{} "Validation failure"
// @Failure     409 {object} map[string]interface{} "Email already registered"
// @Router      /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	user, err := h.userService.Signup(req.Email, req.Password, req.FirstName, req.LastName, models.RiskAppetite(req.RiskAppetite))
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	// Attribute the audit row to the account that was just created.
	c.Set(middleware.ContextUserID, user.ID)
	c.Set(middleware.ContextUserEmail, user.Email)

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"user":        newUserResponse(user),
		"ai_feedback": advisor.PasswordFeedback(req.Password),
	})
}

// Login handles user login.
// @Summary     Login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} map[string]interface{} "Token and user"
// @Failure     401 {object} map[string]interface{} "Invalid credentials"
// @Router      /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	// A successful login authenticates the caller; attribute the audit row
	// so it shows up in their login history.
	c.Set(middleware.ContextUserID, user.ID)
	c.Set(middleware.ContextUserEmail, user.Email)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// PasswordResetRequest represents the password-reset request payload.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordReset simulates OTP-based password recovery. Demo only: the OTP
// is returned in the response, nothing is delivered out of band.
// @Summary     Request a password reset OTP
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PasswordResetRequest true "Account email"
// @Success     200 {object} map[string]interface{} "Message, otp, and ai_feedback"
// @Router      /api/auth/password-reset [post]
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	otp := rand.IntN(900000) + 100000
	c.JSON(http.StatusOK, gin.H{
		"message":     "OTP sent",
		"otp":         otp,
		"ai_feedback": advisor.ResetHint(),
	})
}

// Logout acknowledges a logout. The token is managed client-side; this
// endpoint exists for UX and so the audit trail records the event.
// @Summary     Logout
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the caller's profile.
// @Summary     Get own profile
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} ProfileResponse
// @Failure     401 {object} map[string]interface{}
// @Router      /api/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(user))
}

// UpdateProfileRequest represents a partial profile update. Only present
// fields are applied.
type UpdateProfileRequest struct {
	FirstName         *string  `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName          *string  `json:"lastName" binding:"omitempty,max=100"`
	Email             *string  `json:"email" binding:"omitempty,email"`
	Phone             *string  `json:"phone"`
	RiskAppetite      *string  `json:"riskAppetite" binding:"omitempty,risk_level"`
	InvestmentGoal    *string  `json:"investmentGoal"`
	MonthlyInvestment *float64 `json:"monthlyInvestment" binding:"omitempty,gt=0"`
}

// UpdateMe applies a partial profile update and returns the new profile.
// @Summary     Update own profile
// @Tags        auth
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} ProfileResponse
// @Failure     400 {object} map[string]interface{}
// @Router      /api/auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	patch := services.ProfilePatch{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		InvestmentGoal:    req.InvestmentGoal,
		MonthlyInvestment: req.MonthlyInvestment,
	}
	if req.RiskAppetite != nil {
		appetite := models.RiskAppetite(*req.RiskAppetite)
		patch.RiskAppetite = &appetite
	}

	user, err := h.userService.UpdateProfile(userID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(user))
}

// ChangePasswordRequest represents the change-password payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// ChangePassword rotates the caller's password.
// @Summary     Change password
// @Tags        auth
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} map[string]interface{}
// @Router      /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// TwoFactorSetup starts TOTP enrollment and returns the secret plus a QR
// code for authenticator apps.
// @Summary     Begin 2FA enrollment
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Secret and QR code"
// @Router      /api/auth/2fa/setup [post]
func (h *AuthHandler) TwoFactorSetup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	setup, err := h.userService.SetupTwoFactor(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":         setup.Secret,
		"qrCode":         setup.QRCode,
		"manualEntryKey": setup.Secret,
	})
}

// TwoFactorCodeRequest carries a TOTP code.
type TwoFactorCodeRequest struct {
	Token string `json:"token" binding:"required"`
}

// TwoFactorVerify confirms enrollment with a TOTP code.
// @Summary     Verify 2FA enrollment
// @Tags        auth
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body TwoFactorCodeRequest true "TOTP code"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} map[string]interface{}
// @Router      /api/auth/2fa/verify [post]
func (h *AuthHandler) TwoFactorVerify(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	if err := h.userService.VerifyTwoFactor(userID, req.Token); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled successfully"})
}

// TwoFactorDisable turns two-factor auth off after a final code check.
// @Summary     Disable 2FA
// @Tags        auth
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body TwoFactorCodeRequest true "TOTP code"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} map[string]interface{}
// @Router      /api/auth/2fa/disable [post]
func (h *AuthHandler) TwoFactorDisable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithValidationError(c, err)
		return
	}

	if err := h.userService.DisableTwoFactor(userID, req.Token); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled successfully"})
}

// TwoFactorStatus reports whether the caller has 2FA enabled.
// @Summary     2FA status
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      /api/auth/2fa/status [get]
func (h *AuthHandler) TwoFactorStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	enabled, err := h.userService.TwoFactorEnabled(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// LoginHistoryEntry is one row of the login audit view.
type LoginHistoryEntry struct {
	ID        uint   `json:"id"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

// LoginHistory lists the caller's recent login attempts from the audit trail.
// @Summary     Login history
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      /api/auth/login-history [get]
func (h *AuthHandler) LoginHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logs, err := h.txlogService.LoginHistory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history := make([]LoginHistoryEntry, 0, len(logs))
	for _, l := range logs {
		history = append(history, LoginHistoryEntry{
			ID:        l.ID,
			Endpoint:  l.Endpoint,
			Method:    l.HTTPMethod,
			Status:    l.StatusCode,
			Timestamp: l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Success:   l.StatusCode >= 200 && l.StatusCode < 300,
		})
	}

	c.JSON(http.StatusOK, gin.H{"loginHistory": history})
}

// GetPreferences returns the caller's notification preferences.
// @Summary     Get preferences
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      /api/auth/preferences [get]
func (h *AuthHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.userService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// SavePreferences applies a partial preferences update.
// @Summary     Save preferences
// @Tags        auth
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body services.PreferencesPatch true "Preference flags"
// @Success     200 {object} map[string]interface{}
// @Router      /api/auth/preferences [post]
func (h *AuthHandler) SavePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var patch services.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondWithValidationError(c, err)
		return
	}

	prefs, err := h.userService.SavePreferences(userID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Preferences saved successfully",
		"preferences": prefs,
	})
}
