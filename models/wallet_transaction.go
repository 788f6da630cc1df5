package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TrxTypeDeposit        = "deposit"
	TrxTypeCommission     = "commission"
	TrxTypeCommissionRev  = "commission_reversal"
	TrxTypeWithdrawHold   = "withdraw_hold"
	TrxTypeWithdrawRefund = "withdraw_refund"
)

// WalletTransaction is the append-only movement log. One row per ledger
// credit/debit, never updated, never deleted.
type WalletTransaction struct {
	gorm.Model

	AccountID     uint            `gorm:"index;not null" json:"account_id"`
	TrxType       string          `gorm:"size:24;index;not null" json:"trx_type"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_after"`
	RefID         string          `gorm:"size:80;index" json:"ref_id"`
	Note          string          `gorm:"size:255" json:"note"`
}
