package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/logger"
	"gripinvest/internal/middleware"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrMissingToken if auth middleware did not run.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return "", apperrors.ErrMissingToken
	}
	return userID.(string), nil
}

// respondWithError writes the flat {"error": <message>} response shape the
// clients depend on. AppErrors use their own status and message; anything
// else is logged and becomes a generic 500.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{"error": appErr.Message})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{"error": apperrors.ErrInternalServer.Message})
}

// respondWithValidationError converts a binding failure into a 400 whose
// error value is a structured object listing the offending fields, or a
// plain string when the body was not even parseable.
func respondWithValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
			fieldErrors[field] = append(fieldErrors[field], validationMessage(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"fieldErrors": fieldErrors}})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// validationMessage renders a single field failure in plain language.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "risk_level":
		return "must be one of low, moderate, high"
	case "investment_type":
		return "must be one of bond, fd, mf, etf, other"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "is invalid"
	}
}
