package pixhook

import (
	"errors"
	"log"
	"strings"
	"time"

	"raspa/database"
	"raspa/helpers"
	"raspa/models"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type webhookPayload struct {
	EventID    string `json:"event_id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	EndToEndID string `json:"end_to_end_id"`
}

// Webhook is the provider's push channel. Rule of thumb from §error policy:
// only malformed bodies get a 4xx; every domain-level outcome, including
// duplicate deliveries and races lost to the poll path, answers 200 so the
// provider's retry loop dies down.
func Webhook(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if payload.ExternalID == "" || payload.Status == "" {
		return helpers.JSONError(c, "EXTERNAL_ID_AND_STATUS_REQUIRED")
	}

	eventID := payload.EventID
	if eventID == "" {
		eventID = payload.ExternalID + ":" + strings.ToUpper(payload.Status)
	}

	event := models.WebhookEvent{
		Provider:        "pix",
		ProviderEventID: eventID,
		EventType:       strings.ToUpper(payload.Status),
		Payload:         datatypes.JSON(c.Body()),
		SignatureValid:  true,
	}
	if err := database.DB.Create(&event).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Println("⚠️  Failed to record webhook event:", err)
	}

	switch strings.ToUpper(payload.Status) {
	case "PAID", "COMPLETED", "CONFIRMED":
		_, err := services.ConfirmPaid(payload.ExternalID, payload.EndToEndID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "ORDER_NOT_FOUND")
			}
			if errors.Is(err, services.ErrInvalidTransition) {
				// order expired or failed before the webhook arrived; ack so
				// the provider stops retrying, the money never moved here
				markEventProcessed(event.ID, err.Error())
				return helpers.JSONSuccess(c, "Order not confirmable", nil)
			}
			log.Printf("❌ Webhook confirmation failed for %s: %v", payload.ExternalID, err)
			return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "CONFIRMATION_FAILED")
		}
	case "EXPIRED", "CANCELLED":
		if err := services.Expire(payload.ExternalID); err != nil {
			log.Printf("⚠️  Webhook expire failed for %s: %v", payload.ExternalID, err)
		}
	case "FAILED", "REFUSED":
		if err := services.MarkFailed(payload.ExternalID); err != nil {
			log.Printf("⚠️  Webhook failure mark failed for %s: %v", payload.ExternalID, err)
		}
	}

	markEventProcessed(event.ID, "")
	return helpers.JSONSuccess(c, "Webhook processed", nil)
}

func markEventProcessed(eventID uint, processingErr string) {
	if eventID == 0 {
		return
	}
	now := time.Now()
	_ = database.DB.Model(&models.WebhookEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"processed_at":     &now,
			"processing_error": processingErr,
		}).Error
}
