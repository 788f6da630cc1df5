package services

import (
	"sync"
	"testing"

	"raspa/models"
)

func TestDepositCascade(t *testing.T) {
	db := setupDB(t)
	manager := createManager(t, db, "5")
	affiliate := createAffiliate(t, db, "10", "8", "0", &manager.ID)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	ev := MonetaryEvent{
		EventID:       "ext-100",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "100"),
		Type:          EventTypeDeposit,
	}
	if err := ProcessMonetaryEvent(ev); err != nil {
		t.Fatalf("process event: %v", err)
	}

	// 10% of 100, then 5% of that commission, not of the deposit
	if got := accountBalance(t, db, affiliate.ID); !got.Equal(mustDecimal(t, "10")) {
		t.Errorf("affiliate balance = %s, want 10.00", got)
	}
	if got := accountBalance(t, db, manager.ID); !got.Equal(mustDecimal(t, "0.5")) {
		t.Errorf("manager balance = %s, want 0.50", got)
	}

	var mgrComm models.Commission
	if err := db.Where("beneficiary_account_id = ?", manager.ID).First(&mgrComm).Error; err != nil {
		t.Fatalf("manager commission missing: %v", err)
	}
	if mgrComm.SourceEventID != "ext-100" {
		t.Errorf("manager commission event = %s, want ext-100", mgrComm.SourceEventID)
	}
	if mgrComm.SourceCommissionID == nil {
		t.Fatal("manager commission has no source commission")
	}
	var affComm models.Commission
	if err := db.First(&affComm, *mgrComm.SourceCommissionID).Error; err != nil {
		t.Fatal(err)
	}
	if affComm.BeneficiaryAccountID != affiliate.ID || affComm.SourceEventID != "ext-100" {
		t.Error("manager commission does not point at this event's affiliate commission")
	}
}

func TestCascadeReplayIsNoOp(t *testing.T) {
	db := setupDB(t)
	manager := createManager(t, db, "5")
	affiliate := createAffiliate(t, db, "10", "8", "0", &manager.ID)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	ev := MonetaryEvent{
		EventID:       "ext-200",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "200"),
		Type:          EventTypeDeposit,
	}
	for i := 0; i < 3; i++ {
		if err := ProcessMonetaryEvent(ev); err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
	}

	if got := accountBalance(t, db, affiliate.ID); !got.Equal(mustDecimal(t, "20")) {
		t.Errorf("affiliate balance = %s, want 20.00 after replays", got)
	}
	if got := accountBalance(t, db, manager.ID); !got.Equal(mustDecimal(t, "1")) {
		t.Errorf("manager balance = %s, want 1.00 after replays", got)
	}

	var count int64
	db.Model(&models.Commission{}).Where("source_event_id = ?", "ext-200").Count(&count)
	if count != 2 {
		t.Errorf("commission rows = %d, want 2 (one per tier)", count)
	}
}

func TestCascadeConcurrentSameEvent(t *testing.T) {
	db := setupDB(t)
	manager := createManager(t, db, "5")
	affiliate := createAffiliate(t, db, "10", "8", "0", &manager.ID)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	ev := MonetaryEvent{
		EventID:       "ext-300",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "100"),
		Type:          EventTypeDeposit,
	}

	const workers = 6
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ProcessMonetaryEvent(ev); err != nil {
				t.Errorf("concurrent process: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := accountBalance(t, db, affiliate.ID); !got.Equal(mustDecimal(t, "10")) {
		t.Errorf("affiliate balance = %s, want 10.00", got)
	}
	if got := accountBalance(t, db, manager.ID); !got.Equal(mustDecimal(t, "0.5")) {
		t.Errorf("manager balance = %s, want 0.50", got)
	}
}

func TestNoAffiliateNoCommission(t *testing.T) {
	db := setupDB(t)
	user := createAccount(t, db, models.AccountKindUser, nil)

	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "ext-400",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "100"),
		Type:          EventTypeDeposit,
	})
	if err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	if count != 0 {
		t.Errorf("commission rows = %d, want 0 for a user without affiliate", count)
	}
}

func TestAffiliateWithoutManager(t *testing.T) {
	db := setupDB(t)
	affiliate := createAffiliate(t, db, "10", "8", "0", nil)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "ext-500",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "100"),
		Type:          EventTypeDeposit,
	})
	if err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	if count != 1 {
		t.Errorf("commission rows = %d, want only the affiliate tier", count)
	}
}

func TestGameLossPaysAffiliate(t *testing.T) {
	db := setupDB(t)
	affiliate := createAffiliate(t, db, "10", "8", "0", nil)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	// user lost 50: affiliate gets 8% of the loss
	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "game-1",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "-50"),
		Type:          EventTypeGameLossGain,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := accountBalance(t, db, affiliate.ID); !got.Equal(mustDecimal(t, "4")) {
		t.Errorf("affiliate balance = %s, want 4.00", got)
	}
}

func TestGameWinClawsBackWhenConfigured(t *testing.T) {
	db := setupDB(t)
	affiliate := createAffiliate(t, db, "10", "8", "-8", nil)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	// fund the affiliate so the claw-back is covered
	if err := Credit(db, affiliate.ID, mustDecimal(t, "10"), models.TrxTypeCommission, "seed", "seed"); err != nil {
		t.Fatal(err)
	}

	// user won 50 with a -8% win rate: affiliate loses 4.00
	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "game-2",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "50"),
		Type:          EventTypeGameLossGain,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := accountBalance(t, db, affiliate.ID); !got.Equal(mustDecimal(t, "6")) {
		t.Errorf("affiliate balance = %s, want 6.00 after claw-back", got)
	}

	var comm models.Commission
	if err := db.Where("source_event_id = ?", "game-2").First(&comm).Error; err != nil {
		t.Fatal(err)
	}
	if !comm.Amount.Equal(mustDecimal(t, "-4")) {
		t.Errorf("commission amount = %s, want -4.00 (sign preserved)", comm.Amount)
	}
	if comm.Status != models.CommissionStatusPaid {
		t.Errorf("commission status = %s, want paid", comm.Status)
	}
}

func TestUncoveredClawBackIsFlaggedNotDropped(t *testing.T) {
	db := setupDB(t)
	affiliate := createAffiliate(t, db, "10", "8", "-8", nil)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	// affiliate balance is zero, the claw-back cannot be applied
	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "game-3",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "50"),
		Type:          EventTypeGameLossGain,
	})
	if err != nil {
		t.Fatal(err)
	}

	var comm models.Commission
	if err := db.Where("source_event_id = ?", "game-3").First(&comm).Error; err != nil {
		t.Fatalf("flagged commission row missing: %v", err)
	}
	if comm.Status != models.CommissionStatusFlagged {
		t.Errorf("status = %s, want flagged", comm.Status)
	}
	if got := accountBalance(t, db, affiliate.ID); !got.IsZero() {
		t.Errorf("balance = %s, want untouched 0", got)
	}
}

func TestTinyCommissionIsSkipped(t *testing.T) {
	db := setupDB(t)
	affiliate := createAffiliate(t, db, "0.01", "0", "0", nil)
	user := createAccount(t, db, models.AccountKindUser, &affiliate.ID)

	// 0.01% of 10.00 rounds to 0.00, below the default epsilon
	err := ProcessMonetaryEvent(MonetaryEvent{
		EventID:       "ext-600",
		UserAccountID: user.ID,
		NetAmount:     mustDecimal(t, "10"),
		Type:          EventTypeDeposit,
	})
	if err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	if count != 0 {
		t.Errorf("commission rows = %d, want 0 below epsilon", count)
	}
}
