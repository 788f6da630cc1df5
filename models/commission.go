package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
	CommissionStatusFlagged = "flagged"

	CommissionTypeDeposit  = "deposit"
	CommissionTypeLossGain = "loss_gain"
	CommissionTypeOverride = "manager_override"
)

// Commission is one commission owed to an affiliate or manager for one
// monetary event. The composite unique index on (beneficiary_account_id,
// source_event_id) is the idempotency guard: inserting is reserving, and a
// duplicate insert means the event was already processed for this beneficiary.
type Commission struct {
	gorm.Model

	BeneficiaryAccountID uint   `gorm:"not null;index;index:idx_commission_beneficiary_event,unique" json:"beneficiary_account_id"`
	BeneficiaryKind      string `gorm:"size:16;not null" json:"beneficiary_kind"`
	SourceEventID        string `gorm:"size:80;not null;index;index:idx_commission_beneficiary_event,unique" json:"source_event_id"`

	// Set on manager commissions only: the affiliate commission this one was
	// derived from, always for the same SourceEventID.
	SourceCommissionID *uint `gorm:"index" json:"source_commission_id,omitempty"`

	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	RateApplied decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"rate_applied"`

	CommissionType string `gorm:"size:24;not null" json:"commission_type"`
	Status         string `gorm:"size:16;index;not null" json:"status"`
}
