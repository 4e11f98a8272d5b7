package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	model "uniportal_backend/internals/features/finance/settings/model"
	service "uniportal_backend/internals/features/finance/settings/service"
	helper "uniportal_backend/internals/helpers"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GET /admin/settings
func (ctl *SettingsController) List(c *fiber.Ctx) error {
	var rows []model.SettingModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("setting_key ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /admin/settings/:key
func (ctl *SettingsController) Get(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing key")
	}
	val, err := service.Get(c.Context(), ctl.DB, key, "")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load setting")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"setting_key": key, "setting_value": val})
}

// PUT /admin/settings/:key
func (ctl *SettingsController) Put(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "missing key")
	}

	var body struct {
		SettingValue string `json:"setting_value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}

	if err := service.Set(c.Context(), ctl.DB, key, body.SettingValue); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save setting")
	}
	return helper.JsonUpdated(c, "Setting saved", fiber.Map{"setting_key": key, "setting_value": body.SettingValue})
}
