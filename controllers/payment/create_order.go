package payment

import (
	"errors"

	"raspa/helpers"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	UserAccountID uint            `json:"user_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	PayerName     string          `json:"payer_name"`
}

func CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.UserAccountID == 0 || !req.Amount.IsPositive() {
		return helpers.JSONError(c, "ACCOUNT_AND_AMOUNT_REQUIRED")
	}

	order, err := services.CreateOrder(req.UserAccountID, req.Amount, req.PayerName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return helpers.JSONError(c, "AMOUNT_OUT_OF_BOUNDS")
		case errors.Is(err, services.ErrDuplicateOrder):
			return helpers.JSONError(c, "DUPLICATE_ORDER")
		case errors.Is(err, services.ErrNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "USER_NOT_FOUND")
		}
		return helpers.JSONError(c, "FAILED_TO_CREATE_ORDER")
	}

	return helpers.JSONSuccess(c, "Order created", fiber.Map{
		"external_id":     order.ExternalID,
		"amount":          order.Amount,
		"status":          order.Status,
		"qr_payload":      order.QRPayload,
		"copy_paste_code": order.CopyPasteCode,
		"expires_at":      order.ExpiresAt,
	})
}
