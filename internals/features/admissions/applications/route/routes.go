package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/constants"
	applicationCtl "uniportal_backend/internals/features/admissions/applications/controller"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

// ApplicationUserRoutes: applicant-facing, mounted under the authenticated /u group.
func ApplicationUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := applicationCtl.NewApplicationController(db, nil)

	api.Get("/applications", ctl.ListMine)
	api.Post("/applications", ctl.Create)
	api.Patch("/applications/:id", ctl.Patch)
	api.Post("/applications/:id/submit", ctl.Submit)
}

// ApplicationAdminRoutes: staff review surface, mounted under /a.
func ApplicationAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := applicationCtl.NewApplicationController(db, nil)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorStaff("reviewing applications"),
			constants.StaffAndAbove,
		),
	)

	base.Get("/applications", ctl.List)
	base.Get("/applications/:id", ctl.GetByID)
	base.Post("/applications/:id/under-review", ctl.MarkUnderReview)
	base.Post("/applications/:id/review", ctl.Review)
}
