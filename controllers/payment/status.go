package payment

import (
	"errors"

	"raspa/database"
	"raspa/helpers"
	"raspa/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Status is the consumer-facing poll endpoint. It only reads persisted state;
// the provider polling happens in the order watcher, so hammering this route
// cannot mutate anything.
func Status(c *fiber.Ctx) error {
	externalID := c.Params("external_id")
	if externalID == "" {
		return helpers.JSONError(c, "EXTERNAL_ID_REQUIRED")
	}

	var order models.PaymentOrder
	if err := database.DB.Where("external_id = ?", externalID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "ORDER_NOT_FOUND")
		}
		return helpers.JSONError(c, "FAILED_TO_LOAD_ORDER")
	}

	return helpers.JSONSuccess(c, "Order status", fiber.Map{
		"external_id": order.ExternalID,
		"processed":   order.Status == models.OrderStatusSuccess,
		"status":      order.Status,
	})
}
