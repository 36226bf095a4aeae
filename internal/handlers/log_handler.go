package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gripinvest/internal/models"
	"gripinvest/internal/pagination"
	"gripinvest/internal/services"
)

// LogHandler serves the per-user audit trail.
type LogHandler struct {
	txlogService services.TransactionLogServicer
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(txlogService services.TransactionLogServicer) *LogHandler {
	return &LogHandler{txlogService: txlogService}
}

// LogResponse is the public audit row shape.
type LogResponse struct {
	ID           uint      `json:"id"`
	UserID       *string   `json:"userId"`
	Email        *string   `json:"email"`
	Endpoint     string    `json:"endpoint"`
	HTTPMethod   string    `json:"httpMethod"`
	StatusCode   int       `json:"statusCode"`
	ErrorMessage *string   `json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newLogResponse(l *models.TransactionLog) LogResponse {
	return LogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Email:        l.Email,
		Endpoint:     l.Endpoint,
		HTTPMethod:   l.HTTPMethod,
		StatusCode:   l.StatusCode,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

func newLogResponses(logs []models.TransactionLog) []LogResponse {
	out := make([]LogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, newLogResponse(&logs[i]))
	}
	return out
}

// ListUserLogs returns a page of the given user's audit rows.
// @Summary     List a user's audit logs
// @Tags        logs
// @Security    BearerAuth
// @Produce     json
// @Param       userId    path  string true  "User ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} map[string]interface{}
// @Router      /api/logs/user/{userId} [get]
func (h *LogHandler) ListUserLogs(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithValidationError(c, err)
		return
	}

	result, err := h.txlogService.ListUserLogs(c.Param("userId"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":        newLogResponses(result.Data),
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total_items": result.TotalItems,
		"total_pages": result.TotalPages,
	})
}

// ListOwnLogs returns the caller's recent audit rows. Caching is disabled
// so the view always reflects the latest activity.
// @Summary     List own audit logs
// @Tags        logs
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      /api/logs/user/me [get]
func (h *LogHandler) ListOwnLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logs, err := h.txlogService.ListOwnLogs(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.JSON(http.StatusOK, gin.H{"logs": newLogResponses(logs)})
}

// Summary returns a one-line digest of a user's recent errors.
// @Summary     Summarize a user's error history
// @Tags        logs
// @Security    BearerAuth
// @Produce     json
// @Param       userId path string true "User ID"
// @Success     200 {object} map[string]interface{}
// @Router      /api/logs/summary/{userId} [get]
func (h *LogHandler) Summary(c *gin.Context) {
	summary, err := h.txlogService.Summary(c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
