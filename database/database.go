package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"raspa/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// unique violations must come back as gorm.ErrDuplicatedKey, the
		// commission guard relies on it
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db
	log.Println("✅ Connected to database")

	autoMigrateEnv := os.Getenv("DB_AUTO_MIGRATE")
	autoMigrate, err := strconv.ParseBool(autoMigrateEnv)
	if err != nil {
		log.Printf("⚠️  Invalid value for DB_AUTO_MIGRATE: %s\n", autoMigrateEnv)
	}

	if autoMigrate {
		log.Println("🟡 Starting auto-migration...")

		if err := Migrate(DB); err != nil {
			log.Fatal("❌ Failed to auto-migrate database:", err)
		}

		log.Println("✅ Auto migration completed")
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.AffiliateProfile{},
		&models.ManagerProfile{},
		&models.PaymentOrder{},
		&models.Commission{},
		&models.WalletTransaction{},
		&models.WithdrawRequest{},
		&models.GameResult{},
		&models.WebhookEvent{},
		&models.Setting{},
	); err != nil {
		return err
	}
	return seedSettings(db)
}

// seedSettings makes sure exactly one settings row exists so the cached
// settings service always has something to read.
func seedSettings(db *gorm.DB) error {
	var s models.Setting
	err := db.First(&s).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	defaults := models.Setting{
		MinDeposit:          decimal.NewFromInt(10),
		MaxDeposit:          decimal.NewFromInt(50000),
		MinWithdraw:         decimal.NewFromInt(20),
		OrderExpiryMinutes:  10,
		PollIntervalSeconds: 5,
		CommissionEpsilon:   decimal.NewFromFloat(0.01),
	}
	return db.Create(&defaults).Error
}
