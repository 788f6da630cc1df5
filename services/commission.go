package services

import (
	"errors"
	"log"

	"raspa/database"
	"raspa/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EventTypeDeposit      = "deposit"
	EventTypeGameLossGain = "game_loss_gain"
)

// MonetaryEvent is the unit of "something happened that may owe a commission":
// a confirmed deposit or a game round's net result. EventID is derived from
// the originating transaction (deposit external id, game txn id) and is what
// the idempotency guard keys on.
type MonetaryEvent struct {
	EventID       string
	UserAccountID uint
	NetAmount     decimal.Decimal
	Type          string
}

var errAlreadyReserved = errors.New("commission already exists for beneficiary and event")

// ProcessMonetaryEvent runs the two-tier cascade: the user's affiliate gets a
// percentage of the event, the affiliate's manager gets a percentage of that
// affiliate commission. Each tier is one transaction pairing the guarded
// commission insert with the balance application, so a replayed event can
// never credit twice and a crash can never leave a half-applied tier.
func ProcessMonetaryEvent(ev MonetaryEvent) error {
	var user models.Account
	if err := database.DB.First(&user, ev.UserAccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if user.AffiliateID == nil {
		return nil
	}

	var profile models.AffiliateProfile
	if err := database.DB.Where("account_id = ?", *user.AffiliateID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// user points at an account with no affiliate profile; nothing owed
			return nil
		}
		return err
	}

	settings, err := GetSettings()
	if err != nil {
		return err
	}

	amount, rate, commType := affiliateCommission(ev, profile)
	if amount.Abs().LessThan(settings.CommissionEpsilon) {
		return nil
	}

	affComm, err := applyCommission(models.Commission{
		BeneficiaryAccountID: profile.AccountID,
		BeneficiaryKind:      models.AccountKindAffiliate,
		SourceEventID:        ev.EventID,
		Amount:               amount,
		RateApplied:          rate,
		CommissionType:       commType,
		Status:               models.CommissionStatusPending,
	})
	if err != nil {
		if errors.Is(err, errAlreadyReserved) {
			return nil
		}
		return err
	}

	if profile.ManagerAccountID == nil {
		return nil
	}

	var mgr models.ManagerProfile
	if err := database.DB.Where("account_id = ?", *profile.ManagerAccountID).First(&mgr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	// Always a cut of this one affiliate commission, never of the affiliate's
	// running balance. Anything else drifts under replays and concurrency.
	mgrAmount := affComm.Amount.Mul(mgr.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
	if mgrAmount.Abs().LessThan(settings.CommissionEpsilon) {
		return nil
	}

	_, err = applyCommission(models.Commission{
		BeneficiaryAccountID: mgr.AccountID,
		BeneficiaryKind:      models.AccountKindManager,
		SourceEventID:        ev.EventID,
		SourceCommissionID:   &affComm.ID,
		Amount:               mgrAmount,
		RateApplied:          mgr.CommissionRate,
		CommissionType:       models.CommissionTypeOverride,
		Status:               models.CommissionStatusPending,
	})
	if err != nil && !errors.Is(err, errAlreadyReserved) {
		return err
	}
	return nil
}

// affiliateCommission picks the signed basis and rate for the event type.
// Rates are percent values; WinRate is applied to user wins with its sign
// preserved, so a negative WinRate produces a negative commission.
func affiliateCommission(ev MonetaryEvent, profile models.AffiliateProfile) (decimal.Decimal, decimal.Decimal, string) {
	hundred := decimal.NewFromInt(100)

	switch ev.Type {
	case EventTypeDeposit:
		return ev.NetAmount.Mul(profile.DepositRate).Div(hundred).Round(2),
			profile.DepositRate, models.CommissionTypeDeposit
	case EventTypeGameLossGain:
		if ev.NetAmount.IsNegative() {
			return ev.NetAmount.Abs().Mul(profile.LossRate).Div(hundred).Round(2),
				profile.LossRate, models.CommissionTypeLossGain
		}
		return ev.NetAmount.Mul(profile.WinRate).Div(hundred).Round(2),
			profile.WinRate, models.CommissionTypeLossGain
	}
	return decimal.Zero, decimal.Zero, ev.Type
}

// applyCommission inserts the commission row and moves the beneficiary
// balance in one transaction. The insert itself is the idempotency
// reservation: the unique (beneficiary, event) index turns a duplicate into
// gorm.ErrDuplicatedKey and the whole tier becomes a no-op.
//
// Negative commissions are applied as a guarded debit. If the balance cannot
// cover the claw-back the row is kept flagged, with no balance change, for
// manual reconciliation.
func applyCommission(comm models.Commission) (*models.Commission, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comm).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyReserved
			}
			return err
		}

		if comm.Amount.IsNegative() {
			err := Debit(tx, comm.BeneficiaryAccountID, comm.Amount.Abs(),
				models.TrxTypeCommissionRev, "commission claw-back "+comm.SourceEventID, comm.SourceEventID)
			if errors.Is(err, ErrInsufficientBalance) {
				log.Printf("⚠️  Commission claw-back not covered: account=%d event=%s amount=%s",
					comm.BeneficiaryAccountID, comm.SourceEventID, comm.Amount.StringFixed(2))
				return tx.Model(&comm).Update("status", models.CommissionStatusFlagged).Error
			}
			if err != nil {
				return err
			}
			return tx.Model(&comm).Update("status", models.CommissionStatusPaid).Error
		}

		if err := Credit(tx, comm.BeneficiaryAccountID, comm.Amount,
			models.TrxTypeCommission, "commission "+comm.SourceEventID, comm.SourceEventID); err != nil {
			return err
		}
		return tx.Model(&comm).Update("status", models.CommissionStatusPaid).Error
	})
	if err != nil {
		return nil, err
	}
	return &comm, nil
}
