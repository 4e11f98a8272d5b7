package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/configs"
	"uniportal_backend/internals/constants"
	paymentCtl "uniportal_backend/internals/features/finance/payments/controller"
	"uniportal_backend/internals/middlewares"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

func newController(db *gorm.DB) *paymentCtl.PaymentController {
	return paymentCtl.NewPaymentController(db, configs.GetEnv("MIDTRANS_SERVER_KEY", ""))
}

// PaymentWebhookRoutes: unauthenticated, signature-verified inside the
// handler. Path must stay in sync with the auth middleware skip list.
func PaymentWebhookRoutes(api fiber.Router, db *gorm.DB) {
	ctl := newController(db)
	api.Post("/payments/midtrans/notification", ctl.MidtransWebhook)
}

// PaymentUserRoutes: applicant-facing, mounted under the authenticated /u group.
func PaymentUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	api.Get("/payments", ctl.ListMine)
	api.Post("/payments/form", middlewares.PaymentRateLimiter(), ctl.InitiateFormPayment)
	api.Post("/payments/acceptance", middlewares.PaymentRateLimiter(), ctl.InitiateAcceptancePayment)
}

// PaymentAdminRoutes: staff reconciliation surface, mounted under /a.
func PaymentAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorStaff("viewing payments"),
			constants.StaffAndAbove,
		),
	)

	base.Get("/payments", ctl.List)
}
