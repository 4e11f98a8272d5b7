package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/constants"
	settingsCtl "uniportal_backend/internals/features/finance/settings/controller"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

func SettingsAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := settingsCtl.NewSettingsController(db)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorAdmin("managing settings"),
			constants.AdminOnly,
		),
	)

	base.Get("/settings", ctl.List)
	base.Get("/settings/:key", ctl.Get)
	base.Put("/settings/:key", ctl.Put)
}
