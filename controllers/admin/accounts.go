package admin

import (
	"errors"

	"raspa/database"
	"raspa/helpers"
	"raspa/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegisterUserBody struct {
	AffiliateCode string `json:"affiliate_code"`
}

// RegisterUser creates a user wallet account, optionally attached to the
// affiliate whose code referred it.
func RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var affiliateID *uint
	if req.AffiliateCode != "" {
		var aff models.Account
		if err := database.DB.
			Where("code = ? AND kind = ? AND is_active = true", req.AffiliateCode, models.AccountKindAffiliate).
			First(&aff).Error; err != nil {
			return helpers.JSONError(c, "AFFILIATE_NOT_FOUND")
		}
		affiliateID = &aff.ID
	}

	account := models.Account{
		Kind:        models.AccountKindUser,
		AffiliateID: affiliateID,
		IsActive:    true,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_USER")
	}

	return helpers.JSONSuccess(c, "User registered", fiber.Map{
		"account_id": account.ID,
		"code":       account.Code,
	})
}

type RegisterAffiliateBody struct {
	DepositRate decimal.Decimal `json:"deposit_rate"`
	LossRate    decimal.Decimal `json:"loss_rate"`
	WinRate     decimal.Decimal `json:"win_rate"`
	ManagerCode string          `json:"manager_code"`
}

func RegisterAffiliate(c *fiber.Ctx) error {
	var req RegisterAffiliateBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var managerAccountID *uint
	if req.ManagerCode != "" {
		var mgr models.Account
		if err := database.DB.
			Where("code = ? AND kind = ? AND is_active = true", req.ManagerCode, models.AccountKindManager).
			First(&mgr).Error; err != nil {
			return helpers.JSONError(c, "MANAGER_NOT_FOUND")
		}
		managerAccountID = &mgr.ID
	}

	account := models.Account{
		Kind:     models.AccountKindAffiliate,
		IsActive: true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&models.AffiliateProfile{
			AccountID:        account.ID,
			DepositRate:      req.DepositRate,
			LossRate:         req.LossRate,
			WinRate:          req.WinRate,
			ManagerAccountID: managerAccountID,
		}).Error
	})
	if err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_AFFILIATE")
	}

	return helpers.JSONSuccess(c, "Affiliate registered", fiber.Map{
		"account_id": account.ID,
		"code":       account.Code,
	})
}

type RegisterManagerBody struct {
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

func RegisterManager(c *fiber.Ctx) error {
	var req RegisterManagerBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	account := models.Account{
		Kind:     models.AccountKindManager,
		IsActive: true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&models.ManagerProfile{
			AccountID:      account.ID,
			CommissionRate: req.CommissionRate,
		}).Error
	})
	if err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_MANAGER")
	}

	return helpers.JSONSuccess(c, "Manager registered", fiber.Map{
		"account_id": account.ID,
		"code":       account.Code,
	})
}

type UpdateAffiliateBody struct {
	AccountID uint `json:"account_id"`

	// nil means leave unchanged
	DepositRate *decimal.Decimal `json:"deposit_rate"`
	LossRate    *decimal.Decimal `json:"loss_rate"`
	WinRate     *decimal.Decimal `json:"win_rate"`
	ManagerCode *string          `json:"manager_code"`
}

// UpdateAffiliate patches an affiliate's rate table. Unset fields are an
// explicit leave-unchanged sentinel, not a zero overwrite.
func UpdateAffiliate(c *fiber.Ctx) error {
	var req UpdateAffiliateBody
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.AccountID == 0 {
		return helpers.JSONError(c, "ACCOUNT_ID_REQUIRED")
	}

	var profile models.AffiliateProfile
	if err := database.DB.Where("account_id = ?", req.AccountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "AFFILIATE_NOT_FOUND")
		}
		return helpers.JSONError(c, "FAILED_TO_LOAD_AFFILIATE")
	}

	updates := map[string]any{}
	if req.DepositRate != nil {
		updates["deposit_rate"] = *req.DepositRate
	}
	if req.LossRate != nil {
		updates["loss_rate"] = *req.LossRate
	}
	if req.WinRate != nil {
		updates["win_rate"] = *req.WinRate
	}
	if req.ManagerCode != nil {
		if *req.ManagerCode == "" {
			updates["manager_account_id"] = nil
		} else {
			var mgr models.Account
			if err := database.DB.
				Where("code = ? AND kind = ?", *req.ManagerCode, models.AccountKindManager).
				First(&mgr).Error; err != nil {
				return helpers.JSONError(c, "MANAGER_NOT_FOUND")
			}
			updates["manager_account_id"] = mgr.ID
		}
	}

	if len(updates) == 0 {
		return helpers.JSONSuccess(c, "Nothing to update", nil)
	}

	if err := database.DB.Model(&profile).Updates(updates).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_UPDATE_AFFILIATE")
	}

	return helpers.JSONSuccess(c, "Affiliate updated", fiber.Map{
		"account_id": profile.AccountID,
	})
}
