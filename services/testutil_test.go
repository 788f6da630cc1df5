package services

import (
	"os"
	"sync"
	"testing"

	"raspa/database"
	"raspa/models"
	"raspa/providers/pix"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway stands in for the PIX provider. Charges echo the reference back
// as the external id; GetCharge answers from the programmable status map.
type stubGateway struct {
	mu       sync.Mutex
	statuses map[string]pix.ChargeStatus
}

var testGateway = &stubGateway{statuses: map[string]pix.ChargeStatus{}}

func init() {
	pix.Register("stub", testGateway)
}

func (s *stubGateway) CreateCharge(req pix.ChargeRequest) (*pix.Charge, error) {
	return &pix.Charge{
		ExternalID:    req.Reference,
		QRPayload:     "qr-" + req.Reference,
		CopyPasteCode: "copia-e-cola-" + req.Reference,
	}, nil
}

func (s *stubGateway) GetCharge(externalID string) (*pix.ChargeStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[externalID]
	if !ok {
		return &pix.ChargeStatus{RawStatus: "PENDING"}, nil
	}
	return &status, nil
}

func (s *stubGateway) setPaid(externalID, endToEndID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[externalID] = pix.ChargeStatus{Paid: true, RawStatus: "PAID", EndToEndID: endToEndID}
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("db connection: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{
		"wallet_transactions", "commissions", "withdraw_requests",
		"game_results", "webhook_events", "payment_orders",
		"affiliate_profiles", "manager_profiles", "accounts", "settings",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}

	database.DB = db
	if err := database.Migrate(db); err != nil { // reseed settings
		t.Fatalf("reseed: %v", err)
	}
	InvalidateSettings()

	t.Setenv("PIX_GATEWAY", "stub")

	return db
}

func createAccount(t *testing.T, db *gorm.DB, kind string, affiliateID *uint) *models.Account {
	t.Helper()
	account := models.Account{Kind: kind, AffiliateID: affiliateID, IsActive: true}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create %s account: %v", kind, err)
	}
	return &account
}

func createAffiliate(t *testing.T, db *gorm.DB, depositRate, lossRate, winRate string, managerID *uint) *models.Account {
	t.Helper()
	account := createAccount(t, db, models.AccountKindAffiliate, nil)
	profile := models.AffiliateProfile{
		AccountID:        account.ID,
		DepositRate:      mustDecimal(t, depositRate),
		LossRate:         mustDecimal(t, lossRate),
		WinRate:          mustDecimal(t, winRate),
		ManagerAccountID: managerID,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create affiliate profile: %v", err)
	}
	return account
}

func createManager(t *testing.T, db *gorm.DB, rate string) *models.Account {
	t.Helper()
	account := createAccount(t, db, models.AccountKindManager, nil)
	profile := models.ManagerProfile{
		AccountID:      account.ID,
		CommissionRate: mustDecimal(t, rate),
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create manager profile: %v", err)
	}
	return account
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func accountBalance(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		t.Fatalf("load account %d: %v", accountID, err)
	}
	return account.Balance
}
