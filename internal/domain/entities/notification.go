package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSeverity represents notification severity
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "INFO"
	SeveritySuccess NotificationSeverity = "SUCCESS"
	SeverityError   NotificationSeverity = "ERROR"
)

// Notification is a user-facing message derived from ledger outcomes
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"userId"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	IsRead    bool                 `json:"isRead"`
	CreatedAt time.Time            `json:"createdAt"`
}
