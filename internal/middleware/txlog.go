package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gripinvest/internal/logger"
	"gripinvest/internal/models"
)

// logsPathPrefix is excluded from audit logging so that reading the audit
// trail does not itself grow the audit trail.
const logsPathPrefix = "/api/logs"

// TransactionRecorder persists one audit row. Implementations must never
// return an error to the caller; failures are theirs to swallow.
type TransactionRecorder interface {
	Record(entry models.TransactionLog)
}

// TransactionLogger returns middleware that records exactly one
// TransactionLog row per completed request, except for requests under the
// log-retrieval namespace.
//
// The row is snapshotted after the handler chain returns, when the status
// code is final, and handed to the recorder on a separate goroutine so the
// write never delays response delivery. If the process dies between
// response send and the insert the row is lost; that gap is accepted.
func TransactionLogger(recorder TransactionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if strings.HasPrefix(path, logsPathPrefix) {
			return
		}

		entry := models.TransactionLog{
			Endpoint:   path,
			HTTPMethod: c.Request.Method,
			StatusCode: c.Writer.Status(),
		}

		// Identity is present only when AuthMiddleware ran and accepted
		// the token.
		if id, ok := c.Get(ContextUserID); ok {
			userID := id.(string)
			entry.UserID = &userID
		}
		if email, ok := c.Get(ContextUserEmail); ok {
			userEmail := email.(string)
			entry.Email = &userEmail
		}

		if entry.StatusCode >= 400 {
			msg := fmt.Sprintf("%s %s failed in %dms", entry.HTTPMethod, entry.Endpoint, time.Since(start).Milliseconds())
			entry.ErrorMessage = &msg
		}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Get().Errorw("transaction recorder panic",
						"panic", r,
						"endpoint", entry.Endpoint,
					)
				}
			}()
			recorder.Record(entry)
		}()
	}
}
