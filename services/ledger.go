package services

import (
	"errors"

	"raspa/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credit and Debit are the only two ways a balance moves. Everything else
// (deposit crediting, commissions, withdraw holds) goes through them, so the
// non-negative balance invariant lives in exactly one place.
//
// Both expect to run inside the caller's transaction and lock the account row
// for the duration.

func Credit(tx *gorm.DB, accountID uint, amount decimal.Decimal, trxType, note, refID string) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	before := account.Balance
	account.Balance = account.Balance.Add(amount)
	account.LifetimeEarnings = account.LifetimeEarnings.Add(amount)

	if err := tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"balance":           account.Balance,
			"lifetime_earnings": account.LifetimeEarnings,
		}).Error; err != nil {
		return err
	}

	return tx.Create(&models.WalletTransaction{
		AccountID:     account.ID,
		TrxType:       trxType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  account.Balance,
		RefID:         refID,
		Note:          note,
	}).Error
}

func Debit(tx *gorm.DB, accountID uint, amount decimal.Decimal, trxType, note, refID string) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if account.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	before := account.Balance
	account.Balance = account.Balance.Sub(amount)

	// LifetimeEarnings is untouched on the way down
	if err := tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("balance", account.Balance).Error; err != nil {
		return err
	}

	return tx.Create(&models.WalletTransaction{
		AccountID:     account.ID,
		TrxType:       trxType,
		Amount:        amount.Neg(),
		BalanceBefore: before,
		BalanceAfter:  account.Balance,
		RefID:         refID,
		Note:          note,
	}).Error
}
