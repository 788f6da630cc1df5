package affiliate

import (
	"errors"

	"raspa/database"
	"raspa/helpers"
	"raspa/models"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WithdrawRequestBody struct {
	AccountID uint            `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	PixKey    string          `json:"pix_key"`
	PixType   string          `json:"pix_type"`
}

func RequestWithdraw(c *fiber.Ctx) error {
	var req WithdrawRequestBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.AccountID == 0 || !req.Amount.IsPositive() || req.PixKey == "" || req.PixType == "" {
		return helpers.JSONError(c, "ACCOUNT_AMOUNT_AND_PIX_KEY_REQUIRED")
	}

	withdraw, err := services.RequestWithdraw(req.AccountID, req.Amount, req.PixKey, req.PixType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBelowMinimum):
			return helpers.JSONError(c, "BELOW_MINIMUM_WITHDRAW")
		case errors.Is(err, services.ErrInsufficientBalance):
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		case errors.Is(err, services.ErrNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND")
		}
		return helpers.JSONError(c, "FAILED_TO_CREATE_WITHDRAW")
	}

	return helpers.JSONSuccess(c, "Withdraw requested", fiber.Map{
		"withdraw_id": withdraw.ID,
		"amount":      withdraw.Amount,
		"status":      withdraw.Status,
	})
}

type CancelWithdrawBody struct {
	WithdrawID uint `json:"withdraw_id"`
	AccountID  uint `json:"account_id"`
}

func CancelWithdraw(c *fiber.Ctx) error {
	var req CancelWithdrawBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	withdraw, err := services.CancelWithdraw(req.WithdrawID, req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "WITHDRAW_NOT_FOUND")
		case errors.Is(err, services.ErrInvalidTransition):
			return helpers.JSONError(c, "WITHDRAW_ALREADY_PROCESSED")
		}
		return helpers.JSONError(c, "FAILED_TO_CANCEL_WITHDRAW")
	}

	return helpers.JSONSuccess(c, "Withdraw cancelled", fiber.Map{
		"withdraw_id": withdraw.ID,
		"status":      withdraw.Status,
	})
}

type CommissionListBody struct {
	AccountID uint `json:"account_id"`
}

// ListCommissions gives an affiliate or manager its commission history.
func ListCommissions(c *fiber.Ctx) error {
	var req CommissionListBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.AccountID == 0 {
		return helpers.JSONError(c, "ACCOUNT_ID_REQUIRED")
	}

	var account models.Account
	if err := database.DB.First(&account, req.AccountID).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND")
	}

	var commissions []models.Commission
	if err := database.DB.
		Where("beneficiary_account_id = ?", account.ID).
		Order("created_at DESC").
		Limit(200).
		Find(&commissions).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LOAD_COMMISSIONS")
	}

	return helpers.JSONSuccess(c, "Commissions retrieved", fiber.Map{
		"balance":           account.Balance,
		"lifetime_earnings": account.LifetimeEarnings,
		"commissions":       commissions,
	})
}
