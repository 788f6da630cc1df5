package services

import (
	"errors"
	"time"

	"raspa/database"
	"raspa/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawActionApprove = "approve"
	WithdrawActionReject  = "reject"
)

// RequestWithdraw places an optimistic hold: the amount leaves the balance
// when the request is created, not when an admin approves it. Reject and
// cancel give it back.
func RequestWithdraw(accountID uint, amount decimal.Decimal, pixKey, pixType string) (*models.WithdrawRequest, error) {
	settings, err := GetSettings()
	if err != nil {
		return nil, err
	}

	if amount.LessThan(settings.MinWithdraw) {
		return nil, ErrBelowMinimum
	}

	var account models.Account
	if err := database.DB.
		Where("id = ? AND kind IN ? AND is_active = true",
			accountID, []string{models.AccountKindAffiliate, models.AccountKindManager}).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	req := models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    amount,
		PixKey:    pixKey,
		PixType:   pixType,
		Status:    models.WithdrawStatusPending,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := Debit(tx, account.ID, amount,
			models.TrxTypeWithdrawHold, "withdraw hold", uuid.New().String()); err != nil {
			return err
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ProcessWithdraw is the admin decision. The pending -> terminal move is a
// conditional update so two racing decisions (or a decision racing a cancel)
// resolve to exactly one winner.
func ProcessWithdraw(withdrawID uint, action, notes string) (*models.WithdrawRequest, error) {
	switch action {
	case WithdrawActionApprove:
		return settleWithdraw(withdrawID, models.WithdrawStatusApproved, notes, false)
	case WithdrawActionReject:
		return settleWithdraw(withdrawID, models.WithdrawStatusRejected, notes, true)
	}
	return nil, ErrInvalidTransition
}

// CancelWithdraw lets the owning account take a pending request back.
func CancelWithdraw(withdrawID, accountID uint) (*models.WithdrawRequest, error) {
	var req models.WithdrawRequest
	if err := database.DB.First(&req, withdrawID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.AccountID != accountID {
		return nil, ErrNotFound
	}
	return settleWithdraw(withdrawID, models.WithdrawStatusCancelled, "", true)
}

func settleWithdraw(withdrawID uint, target, notes string, refund bool) (*models.WithdrawRequest, error) {
	var req models.WithdrawRequest
	if err := database.DB.First(&req, withdrawID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.WithdrawRequest{}).
			Where("id = ? AND status = ?", withdrawID, models.WithdrawStatusPending).
			Updates(map[string]any{
				"status":       target,
				"admin_notes":  notes,
				"processed_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if refund {
			return Credit(tx, req.AccountID, req.Amount,
				models.TrxTypeWithdrawRefund, "withdraw "+target, uuid.New().String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.First(&req, withdrawID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}
