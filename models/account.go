package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AccountKindUser      = "user"
	AccountKindAffiliate = "affiliate"
	AccountKindManager   = "manager"
)

// Account is the single balance-holding row per user, affiliate or manager.
// Balance only moves through the ledger service; LifetimeEarnings never goes down.
type Account struct {
	gorm.Model

	Code             string          `gorm:"size:36;uniqueIndex;not null" json:"code"`
	Kind             string          `gorm:"size:16;index;not null" json:"kind"`
	Balance          decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	LifetimeEarnings decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"lifetime_earnings"`

	// For kind=user: the referring affiliate's account id, if any.
	AffiliateID *uint `gorm:"index" json:"affiliate_id,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if a.Code == "" {
		a.Code = strings.ToLower(uuid.New().String())
	}
	return nil
}

// AffiliateProfile carries the signed rate table for an affiliate account.
// Rates are percent values; WinRate may be negative (a user win claws back).
type AffiliateProfile struct {
	gorm.Model

	AccountID        uint            `gorm:"uniqueIndex;not null" json:"account_id"`
	DepositRate      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"deposit_rate"`
	LossRate         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"loss_rate"`
	WinRate          decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"win_rate"`
	ManagerAccountID *uint           `gorm:"index" json:"manager_account_id,omitempty"`
}

type ManagerProfile struct {
	gorm.Model

	AccountID      uint            `gorm:"uniqueIndex;not null" json:"account_id"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"commission_rate"`
}
