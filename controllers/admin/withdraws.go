package admin

import (
	"errors"

	"raspa/helpers"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
)

type ProcessWithdrawBody struct {
	WithdrawID uint   `json:"withdraw_id"`
	Action     string `json:"action"`
	Notes      string `json:"notes"`
}

func ProcessWithdraw(c *fiber.Ctx) error {
	var req ProcessWithdrawBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.WithdrawID == 0 ||
		(req.Action != services.WithdrawActionApprove && req.Action != services.WithdrawActionReject) {
		return helpers.JSONError(c, "WITHDRAW_ID_AND_VALID_ACTION_REQUIRED")
	}

	withdraw, err := services.ProcessWithdraw(req.WithdrawID, req.Action, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "WITHDRAW_NOT_FOUND")
		case errors.Is(err, services.ErrInvalidTransition):
			return helpers.JSONError(c, "WITHDRAW_ALREADY_PROCESSED")
		}
		return helpers.JSONError(c, "FAILED_TO_PROCESS_WITHDRAW")
	}

	return helpers.JSONSuccess(c, "Withdraw processed", fiber.Map{
		"withdraw_id": withdraw.ID,
		"status":      withdraw.Status,
		"admin_notes": withdraw.AdminNotes,
	})
}
