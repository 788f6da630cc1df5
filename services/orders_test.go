package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"raspa/models"
)

func TestCreateOrderEnforcesBounds(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	if _, err := CreateOrder(user.ID, mustDecimal(t, "5"), "Maria"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("below minimum: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := CreateOrder(user.ID, mustDecimal(t, "100000"), "Maria"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("above maximum: err = %v, want ErrInvalidAmount", err)
	}

	order, err := CreateOrder(user.ID, mustDecimal(t, "100"), "Maria")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != models.OrderStatusAwaiting {
		t.Errorf("status = %s, want awaiting_confirmation", order.Status)
	}
	if order.QRPayload == "" || order.CopyPasteCode == "" {
		t.Error("order missing charge payload")
	}
}

func TestCreateOrderRejectsDuplicateExternalID(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	order, err := CreateOrder(user.ID, mustDecimal(t, "50"), "João")
	if err != nil {
		t.Fatal(err)
	}

	clone := models.PaymentOrder{
		ExternalID:    order.ExternalID,
		UserAccountID: user.ID,
		Amount:        mustDecimal(t, "50"),
		Status:        models.OrderStatusAwaiting,
		ExpiresAt:     time.Now().Add(10 * time.Minute),
	}
	if err := db.Create(&clone).Error; err == nil {
		t.Error("duplicate external id accepted by the store")
	}
}

func TestMarkSuccessIsIdempotent(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	order, err := CreateOrder(user.ID, mustDecimal(t, "100"), "Maria")
	if err != nil {
		t.Fatal(err)
	}

	_, first, err := MarkSuccess(order.ExternalID, "E123")
	if err != nil || !first {
		t.Fatalf("first call: first=%v err=%v", first, err)
	}

	got, second, err := MarkSuccess(order.ExternalID, "E123")
	if err != nil {
		t.Fatalf("repeat call errored: %v", err)
	}
	if second {
		t.Error("repeat call claimed the transition")
	}
	if got.Status != models.OrderStatusSuccess {
		t.Errorf("status = %s, want success", got.Status)
	}

	if balance := accountBalance(t, db, user.ID); !balance.Equal(mustDecimal(t, "100")) {
		t.Errorf("balance = %s, want exactly one credit of 100", balance)
	}
}

func TestMarkSuccessConcurrent(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	order, err := CreateOrder(user.ID, mustDecimal(t, "100"), "Maria")
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	var wg sync.WaitGroup
	firsts := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, first, err := MarkSuccess(order.ExternalID, "E123")
			if err != nil {
				t.Errorf("concurrent MarkSuccess: %v", err)
				return
			}
			firsts <- first
		}()
	}
	wg.Wait()
	close(firsts)

	wins := 0
	for first := range firsts {
		if first {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("transition claimed %d times, want exactly 1", wins)
	}

	if balance := accountBalance(t, db, user.ID); !balance.Equal(mustDecimal(t, "100")) {
		t.Errorf("balance = %s, want a single credit of 100", balance)
	}

	var credits int64
	db.Model(&models.WalletTransaction{}).
		Where("account_id = ? AND trx_type = ?", user.ID, models.TrxTypeDeposit).
		Count(&credits)
	if credits != 1 {
		t.Errorf("deposit movements = %d, want 1", credits)
	}
}

func TestExpiredOrderRejectsLateConfirmation(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	order, err := CreateOrder(user.ID, mustDecimal(t, "100"), "Maria")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Model(&models.PaymentOrder{}).
		Where("external_id = ?", order.ExternalID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatal(err)
	}

	ExpireDue()

	var got models.PaymentOrder
	if err := db.Where("external_id = ?", order.ExternalID).First(&got).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.OrderStatusExpired {
		t.Fatalf("status = %s, want expired", got.Status)
	}

	if _, _, err := MarkSuccess(order.ExternalID, "E999"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("late confirmation err = %v, want ErrInvalidTransition", err)
	}
	if balance := accountBalance(t, db, user.ID); !balance.IsZero() {
		t.Errorf("balance = %s, want 0 after rejected late confirmation", balance)
	}
}

func TestExpireIsNoOpOnPaidOrder(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	order, err := CreateOrder(user.ID, mustDecimal(t, "100"), "Maria")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := MarkSuccess(order.ExternalID, ""); err != nil {
		t.Fatal(err)
	}

	if err := Expire(order.ExternalID); err != nil {
		t.Fatalf("expire returned error on terminal order: %v", err)
	}

	var got models.PaymentOrder
	if err := db.Where("external_id = ?", order.ExternalID).First(&got).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.OrderStatusSuccess {
		t.Errorf("status = %s, expire must not overwrite success", got.Status)
	}
}
