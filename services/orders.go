package services

import (
	"errors"
	"log"
	"os"
	"time"

	"raspa/database"
	"raspa/models"
	"raspa/providers/pix"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func activeGateway() pix.Gateway {
	name := os.Getenv("PIX_GATEWAY")
	if name == "" {
		name = "api"
	}
	return pix.Get(name)
}

// CreateOrder validates the deposit bounds, asks the PIX gateway for a charge
// and persists the order already awaiting confirmation. A poll watcher is
// started for it so confirmation does not depend on the webhook arriving.
func CreateOrder(userAccountID uint, amount decimal.Decimal, payerName string) (*models.PaymentOrder, error) {
	settings, err := GetSettings()
	if err != nil {
		return nil, err
	}

	if amount.LessThan(settings.MinDeposit) || amount.GreaterThan(settings.MaxDeposit) {
		return nil, ErrInvalidAmount
	}

	var user models.Account
	if err := database.DB.
		Where("id = ? AND kind = ? AND is_active = true", userAccountID, models.AccountKindUser).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	gw := activeGateway()
	if gw == nil {
		return nil, errors.New("no PIX gateway registered")
	}

	reference := uuid.New().String()
	charge, err := gw.CreateCharge(pix.ChargeRequest{
		Amount:    amount,
		PayerName: payerName,
		Reference: reference,
	})
	if err != nil {
		return nil, err
	}

	externalID := charge.ExternalID
	if externalID == "" {
		externalID = reference
	}

	order := models.PaymentOrder{
		ExternalID:    externalID,
		UserAccountID: user.ID,
		Amount:        amount,
		Status:        models.OrderStatusAwaiting,
		PayerName:     payerName,
		QRPayload:     charge.QRPayload,
		CopyPasteCode: charge.CopyPasteCode,
		ExpiresAt:     time.Now().Add(time.Duration(settings.OrderExpiryMinutes) * time.Minute),
	}

	if err := database.DB.Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateOrder
		}
		return nil, err
	}

	WatchOrder(order.ExternalID)

	return &order, nil
}

// MarkSuccess moves an order from awaiting_confirmation to success and credits
// the user wallet, both in one transaction. The transition is a conditional
// update on the current status, so the webhook and poll paths can both call
// this and only one of them performs the side effects.
//
// Returns (order, first, err): first is true only for the call that actually
// made the transition. A repeat call on an already-successful order is a
// no-op, not an error.
func MarkSuccess(externalID string, endToEndID string) (*models.PaymentOrder, bool, error) {
	var order models.PaymentOrder
	if err := database.DB.Where("external_id = ?", externalID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	if order.Status == models.OrderStatusSuccess {
		return &order, false, nil
	}
	if !models.CanTransitionTo(order.Status, models.OrderStatusSuccess) {
		return nil, false, ErrInvalidTransition
	}

	first := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]any{
			"status":  models.OrderStatusSuccess,
			"paid_at": &now,
		}
		if endToEndID != "" {
			updates["end_to_end_id"] = endToEndID
		}

		res := tx.Model(&models.PaymentOrder{}).
			Where("external_id = ? AND status = ?", externalID, models.OrderStatusAwaiting).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// lost the race; the winner already did the side effects
			return nil
		}

		first = true
		return Credit(tx, order.UserAccountID, order.Amount,
			models.TrxTypeDeposit, "PIX deposit "+externalID, externalID)
	})
	if err != nil {
		return nil, false, err
	}

	if err := database.DB.Where("external_id = ?", externalID).First(&order).Error; err != nil {
		return nil, false, err
	}

	if !first && order.Status != models.OrderStatusSuccess {
		// raced against Expire, not against another confirmation
		return nil, false, ErrInvalidTransition
	}

	return &order, first, nil
}

// MarkFailed records an explicit provider failure. Terminal orders are left alone.
func MarkFailed(externalID string) error {
	res := database.DB.Model(&models.PaymentOrder{}).
		Where("external_id = ? AND status = ?", externalID, models.OrderStatusAwaiting).
		Update("status", models.OrderStatusFailed)
	return res.Error
}

// Expire moves a single still-awaiting order to expired. Safe to race against
// MarkSuccess: whoever flips the status first wins, the other is a no-op.
func Expire(externalID string) error {
	res := database.DB.Model(&models.PaymentOrder{}).
		Where("external_id = ? AND status = ?", externalID, models.OrderStatusAwaiting).
		Update("status", models.OrderStatusExpired)
	return res.Error
}

// ExpireDue is the sweep behind the scheduler tick. Store errors are just
// logged; the next tick retries and the success CAS protects paid orders.
func ExpireDue() {
	res := database.DB.Model(&models.PaymentOrder{}).
		Where("status = ? AND expires_at < ?", models.OrderStatusAwaiting, time.Now()).
		Update("status", models.OrderStatusExpired)

	if res.Error != nil {
		log.Println("❌ Failed to expire overdue orders:", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Expired %d overdue payment orders\n", res.RowsAffected)
	}
}
