package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GameResult records one reported game outcome. TxnID is unique so a replayed
// report never produces a second row or a second commission run.
type GameResult struct {
	gorm.Model

	AccountID uint   `gorm:"index;not null" json:"account_id"`
	RoundID   string `gorm:"size:64;index" json:"round_id"`
	TxnID     string `gorm:"size:64;uniqueIndex;not null" json:"txn_id"`

	Stake     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"stake"`
	Payout    decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"payout"`
	NetAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"net_amount"`
}
