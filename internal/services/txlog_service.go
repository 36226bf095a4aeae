package services

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "gripinvest/internal/errors"
	"gripinvest/internal/logger"
	"gripinvest/internal/models"
	"gripinvest/internal/pagination"
)

// ownLogsLimit caps the self-view; loginHistoryLimit caps the login audit.
const (
	ownLogsLimit      = 500
	loginHistoryLimit = 50
	summaryWindow     = 500
)

// txlogService handles the append-only audit trail.
type txlogService struct {
	db *gorm.DB
}

// NewTransactionLogService creates a new TransactionLogServicer.
func NewTransactionLogService(db *gorm.DB) TransactionLogServicer {
	return &txlogService{db: db}
}

// Record appends one audit row. A failed insert is logged for developers
// and otherwise discarded: audit logging must never surface an error to the
// request that produced the row.
func (s *txlogService) Record(entry models.TransactionLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Errorw("failed to record transaction log",
			"error", err,
			"endpoint", entry.Endpoint,
			"method", entry.HTTPMethod,
			"status", entry.StatusCode,
		)
	}
}

// ListUserLogs returns a page of a user's audit rows, newest first.
func (s *txlogService) ListUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error) {
	page.Defaults()

	base := s.db.Model(&models.TransactionLog{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.TransactionLog
	if err := base.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(logs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListOwnLogs returns the caller's recent audit rows. Rows for the
// self-view endpoint are filtered out so the listing does not fill with
// reads of itself.
func (s *txlogService) ListOwnLogs(userID string) ([]models.TransactionLog, error) {
	var logs []models.TransactionLog
	if err := s.db.
		Where("user_id = ? AND endpoint != ?", userID, "/api/logs/user/me").
		Order("created_at DESC").
		Limit(ownLogsLimit).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return logs, nil
}

// Summary condenses a user's recent audit rows into one line: error count
// and the most common failing status code.
func (s *txlogService) Summary(userID string) (string, error) {
	var logs []models.TransactionLog
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(summaryWindow).
		Find(&logs).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var statuses []int
	for _, l := range logs {
		if l.StatusCode >= 400 {
			statuses = append(statuses, l.StatusCode)
		}
	}

	common := "n/a"
	if m, ok := mode(statuses); ok {
		common = fmt.Sprintf("%d", m)
	}
	return fmt.Sprintf("You had %d error(s). Most common status: %s.", len(statuses), common), nil
}

// LoginHistory returns the user's recent login attempts, derived from audit
// rows whose endpoint is a login path.
func (s *txlogService) LoginHistory(userID string) ([]models.TransactionLog, error) {
	var logs []models.TransactionLog
	if err := s.db.
		Where("user_id = ? AND endpoint LIKE ?", userID, "%/login%").
		Order("created_at DESC").
		Limit(loginHistoryLimit).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return logs, nil
}

// mode returns the most frequent value. Ties resolve to whichever value
// reached the maximum count first in input order.
func mode(nums []int) (int, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	counts := make(map[int]int, len(nums))
	best, bestCount := nums[0], 0
	for _, n := range nums {
		counts[n]++
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	return best, true
}
