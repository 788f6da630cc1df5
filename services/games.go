package services

import (
	"errors"

	"raspa/database"
	"raspa/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordGameResult stores one reported round outcome and feeds it to the
// commission engine. The unique txn id makes replayed reports a no-op that
// still returns the stored row, so the game platform can retry freely.
func RecordGameResult(accountCode, roundID, txnID string, stake, payout decimal.Decimal) (*models.GameResult, error) {
	var user models.Account
	if err := database.DB.
		Where("code = ? AND kind = ? AND is_active = true", accountCode, models.AccountKindUser).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := models.GameResult{
		AccountID: user.ID,
		RoundID:   roundID,
		TxnID:     txnID,
		Stake:     stake,
		Payout:    payout,
		NetAmount: payout.Sub(stake),
	}

	if err := database.DB.Create(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.GameResult
			if err := database.DB.Where("txn_id = ?", txnID).First(&existing).Error; err != nil {
				return nil, err
			}
			// the row and the commission run are separate writes, so a
			// retry may be recovering from a run that failed after the row
			// was stored. Re-feed the event; the per-beneficiary guard
			// makes this a no-op when the commission already went through.
			if err := ProcessMonetaryEvent(MonetaryEvent{
				EventID:       "game-" + txnID,
				UserAccountID: existing.AccountID,
				NetAmount:     existing.NetAmount,
				Type:          EventTypeGameLossGain,
			}); err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	if err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "game-" + txnID,
		UserAccountID: user.ID,
		NetAmount:     result.NetAmount,
		Type:          EventTypeGameLossGain,
	}); err != nil {
		return nil, err
	}

	return &result, nil
}
