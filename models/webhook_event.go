package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent keeps every inbound provider notification with its raw payload,
// deduplicated per provider by the provider-side event id.
type WebhookEvent struct {
	gorm.Model

	Provider        string         `gorm:"size:24;not null;index:idx_webhook_provider_event,unique" json:"provider"`
	ProviderEventID string         `gorm:"size:128;not null;index:idx_webhook_provider_event,unique" json:"provider_event_id"`
	EventType       string         `gorm:"size:64;index" json:"event_type"`
	Payload         datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	SignatureValid  bool           `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	ProcessingError string         `gorm:"type:text" json:"processing_error"`
}
