package loyalty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WebhookStatusProcessed = "processed"
	WebhookStatusFailed    = "failed"
)

// WebhookEvent is the audit row written for every external loyalty event,
// successful or not.
type WebhookEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventType    string         `gorm:"not null;column:event_type" json:"event_type"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Platform     string         `gorm:"column:platform" json:"platform,omitempty"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	Status       string         `gorm:"not null;column:status" json:"status"`
	ErrorMessage string         `gorm:"column:error_message" json:"error_message,omitempty"`
	ProcessedAt  time.Time      `gorm:"not null;column:processed_at" json:"processed_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }

func (e *WebhookEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
