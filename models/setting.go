package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Setting is the single runtime-tunable configuration row. Read through the
// cached settings service, never directly from handlers.
type Setting struct {
	gorm.Model

	MinDeposit  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"min_deposit"`
	MaxDeposit  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"max_deposit"`
	MinWithdraw decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"min_withdraw"`

	OrderExpiryMinutes  int `gorm:"not null;default:10" json:"order_expiry_minutes"`
	PollIntervalSeconds int `gorm:"not null;default:5" json:"poll_interval_seconds"`

	// Commissions smaller than this (absolute) are skipped to keep rounding
	// noise out of the ledger.
	CommissionEpsilon decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0.01" json:"commission_epsilon"`
}
