package models

import "time"

// TransactionLog is one audit row per completed HTTP request. The table is
// append-only: rows are never updated or deleted by the application.
//
// UserID and Email are nil for unauthenticated requests. ErrorMessage is
// set only for responses with status >= 400.
type TransactionLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *string   `gorm:"type:uuid;index" json:"user_id"`
	Email        *string   `json:"email"`
	Endpoint     string    `gorm:"not null" json:"endpoint"`
	HTTPMethod   string    `gorm:"not null" json:"http_method"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ErrorMessage *string   `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}
