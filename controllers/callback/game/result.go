package game

import (
	"errors"

	"raspa/helpers"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type resultPayload struct {
	AccountCode string          `json:"account_code"`
	RoundID     string          `json:"round_id"`
	TxnID       string          `json:"txn_id"`
	Stake       decimal.Decimal `json:"stake"`
	Payout      decimal.Decimal `json:"payout"`
}

// Result receives the game platform's settled-round report. The wallet was
// already settled by the game itself; this only records the outcome and runs
// the commission cascade, so replays are harmless.
func Result(c *fiber.Ctx) error {
	var payload resultPayload
	if err := c.BodyParser(&payload); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if payload.AccountCode == "" || payload.TxnID == "" {
		return helpers.JSONError(c, "ACCOUNT_CODE_AND_TXN_ID_REQUIRED")
	}
	if payload.Stake.IsNegative() || payload.Payout.IsNegative() {
		return helpers.JSONError(c, "INVALID_AMOUNTS")
	}

	result, err := services.RecordGameResult(
		payload.AccountCode, payload.RoundID, payload.TxnID,
		payload.Stake, payload.Payout,
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "USER_NOT_FOUND")
		}
		return helpers.JSONError(c, "FAILED_TO_PROCESS_RESULT")
	}

	return helpers.JSONSuccess(c, "Result processed", fiber.Map{
		"txn_id":     result.TxnID,
		"net_amount": result.NetAmount,
	})
}
