package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawStatusPending   = "pending"
	WithdrawStatusApproved  = "approved"
	WithdrawStatusRejected  = "rejected"
	WithdrawStatusCancelled = "cancelled"
)

// WithdrawRequest holds an affiliate/manager payout request. The amount is
// debited from the account when the request is created; reject and cancel
// credit it back, approve leaves it gone.
type WithdrawRequest struct {
	gorm.Model

	AccountID uint            `gorm:"index;not null" json:"account_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	PixKey    string          `gorm:"size:140;not null" json:"pix_key"`
	PixType   string          `gorm:"size:16;not null" json:"pix_type"`
	Status    string          `gorm:"size:16;index;not null" json:"status"`

	AdminNotes  string     `gorm:"size:255" json:"admin_notes"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}
