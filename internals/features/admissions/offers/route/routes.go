package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/constants"
	offerCtl "uniportal_backend/internals/features/admissions/offers/controller"
	"uniportal_backend/internals/middlewares"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

// OfferAdminRoutes: roster upload and review, mounted under /a.
func OfferAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := offerCtl.NewAdmissionOfferController(db, nil)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorStaff("managing admission offers"),
			constants.StaffAndAbove,
		),
	)

	base.Get("/offers", ctl.List)
	base.Post("/offers/upload", middlewares.UploadRateLimiter(), ctl.Upload)
	base.Post("/offers/sweep-expired", ctl.SweepExpired)
}

// OfferUserRoutes: applicant-facing, mounted under the authenticated /u group.
func OfferUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := offerCtl.NewAdmissionOfferController(db, nil)

	api.Get("/offers/mine", ctl.Mine)
	api.Post("/offers/:id/decline", ctl.Decline)
}
