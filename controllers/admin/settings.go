package admin

import (
	"raspa/database"
	"raspa/helpers"
	"raspa/models"
	"raspa/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func GetSettings(c *fiber.Ctx) error {
	settings, err := services.GetSettings()
	if err != nil {
		return helpers.JSONError(c, "FAILED_TO_LOAD_SETTINGS")
	}
	return helpers.JSONSuccess(c, "Settings retrieved", settings)
}

type UpdateSettingsBody struct {
	// nil means leave unchanged
	MinDeposit          *decimal.Decimal `json:"min_deposit"`
	MaxDeposit          *decimal.Decimal `json:"max_deposit"`
	MinWithdraw         *decimal.Decimal `json:"min_withdraw"`
	OrderExpiryMinutes  *int             `json:"order_expiry_minutes"`
	PollIntervalSeconds *int             `json:"poll_interval_seconds"`
	CommissionEpsilon   *decimal.Decimal `json:"commission_epsilon"`
}

func UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var settings models.Setting
	if err := database.DB.First(&settings).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LOAD_SETTINGS")
	}

	updates := map[string]any{}
	if req.MinDeposit != nil {
		updates["min_deposit"] = *req.MinDeposit
	}
	if req.MaxDeposit != nil {
		updates["max_deposit"] = *req.MaxDeposit
	}
	if req.MinWithdraw != nil {
		updates["min_withdraw"] = *req.MinWithdraw
	}
	if req.OrderExpiryMinutes != nil {
		updates["order_expiry_minutes"] = *req.OrderExpiryMinutes
	}
	if req.PollIntervalSeconds != nil {
		updates["poll_interval_seconds"] = *req.PollIntervalSeconds
	}
	if req.CommissionEpsilon != nil {
		updates["commission_epsilon"] = *req.CommissionEpsilon
	}

	if len(updates) == 0 {
		return helpers.JSONSuccess(c, "Nothing to update", settings)
	}

	if err := database.DB.Model(&settings).Updates(updates).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_UPDATE_SETTINGS")
	}

	services.InvalidateSettings()

	return helpers.JSONSuccess(c, "Settings updated", settings)
}
