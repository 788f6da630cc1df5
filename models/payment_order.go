package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusAwaiting = "awaiting_confirmation"
	OrderStatusSuccess  = "success"
	OrderStatusExpired  = "expired"
	OrderStatusFailed   = "failed"
)

// orders are born awaiting_confirmation; every terminal status is final
var validOrderTransitions = map[string][]string{
	OrderStatusAwaiting: {OrderStatusSuccess, OrderStatusExpired, OrderStatusFailed},
}

func CanTransitionTo(current, target string) bool {
	for _, s := range validOrderTransitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusSuccess || status == OrderStatusExpired || status == OrderStatusFailed
}

// PaymentOrder is one PIX deposit attempt, from charge creation until a
// terminal status. The success transition happens exactly once, enforced by a
// conditional update on Status.
type PaymentOrder struct {
	gorm.Model

	ExternalID    string          `gorm:"size:64;uniqueIndex;not null" json:"external_id"`
	UserAccountID uint            `gorm:"index;not null" json:"user_account_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Status        string          `gorm:"size:24;index;not null" json:"status"`
	PayerName     string          `gorm:"size:128" json:"payer_name"`

	QRPayload     string  `gorm:"type:text" json:"qr_payload"`
	CopyPasteCode string  `gorm:"type:text" json:"copy_paste_code"`
	EndToEndID    *string `gorm:"size:64" json:"end_to_end_id,omitempty"`

	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
