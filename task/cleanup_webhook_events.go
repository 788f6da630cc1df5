package tasks

import (
	"log"
	"time"

	"raspa/database"
	"raspa/models"
)

// CleanupOldWebhookEvents drops processed webhook rows older than 30 days.
// Unprocessed rows are kept, they may still need manual reconciliation.
func CleanupOldWebhookEvents() {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := database.DB.
		Where("created_at < ? AND processed_at IS NOT NULL", cutoff).
		Delete(&models.WebhookEvent{})

	if result.Error != nil {
		log.Println("❌ Failed to delete old webhook events:", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("✅ Deleted %d webhook events older than 30 days\n", result.RowsAffected)
	}
}
