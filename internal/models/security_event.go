package models

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEvent is an audit record of an authentication outcome.
type SecurityEvent struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	AccountID   *uuid.UUID `db:"account_id" json:"accountId,omitempty"`
	EventType   string     `db:"event_type" json:"eventType"`
	Severity    string     `db:"severity" json:"severity"`
	Description string     `db:"description" json:"description"`
	IPAddress   string     `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent   string     `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}
