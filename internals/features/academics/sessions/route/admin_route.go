package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/constants"
	sessionCtl "uniportal_backend/internals/features/academics/sessions/controller"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

func SessionAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := sessionCtl.NewAdmissionSessionController(db, nil)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorAdmin("managing admission sessions"),
			constants.AdminOnly,
		),
	)

	base.Get("/sessions", ctl.List)
	base.Get("/sessions/:id", ctl.GetByID)
	base.Post("/sessions", ctl.Create)
	base.Patch("/sessions/:id", ctl.Patch)
	base.Delete("/sessions/:id", ctl.Delete)

	base.Patch("/sessions/:id/activate", ctl.Activate)
	base.Patch("/sessions/:id/deactivate", ctl.Deactivate)
	base.Patch("/sessions/:id/close", ctl.Close)
}

func SessionPublicRoutes(api fiber.Router, db *gorm.DB) {
	ctl := sessionCtl.NewAdmissionSessionController(db, nil)
	api.Get("/sessions/active", ctl.GetActive)
}
