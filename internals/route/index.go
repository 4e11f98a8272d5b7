package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	facultyRoute "uniportal_backend/internals/features/academics/faculties/route"
	sessionRoute "uniportal_backend/internals/features/academics/sessions/route"
	applicationRoute "uniportal_backend/internals/features/admissions/applications/route"
	offerRoute "uniportal_backend/internals/features/admissions/offers/route"
	paymentRoute "uniportal_backend/internals/features/finance/payments/route"
	settingsRoute "uniportal_backend/internals/features/finance/settings/route"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	sessionRoute.SessionPublicRoutes(public, db)
	facultyRoute.FacultiesPublicRoutes(public, db)

	// ===================== WEBHOOKS =====================
	// Signature-verified in the handler, no JWT.
	log.Println("[INFO] Setting up WEBHOOK routes...")
	webhook := app.Group("/api")
	paymentRoute.PaymentWebhookRoutes(webhook, db)

	// ===================== APPLICANT (/api/u) =====================
	log.Println("[INFO] Setting up APPLICANT group...")
	user := app.Group("/api/u", authMiddleware.AuthMiddleware())
	applicationRoute.ApplicationUserRoutes(user, db)
	offerRoute.OfferUserRoutes(user, db)
	paymentRoute.PaymentUserRoutes(user, db)

	// ===================== STAFF / ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", authMiddleware.AuthMiddleware())
	sessionRoute.SessionAdminRoutes(admin, db)
	facultyRoute.FacultiesAdminRoutes(admin, db)
	settingsRoute.SettingsAdminRoutes(admin, db)
	applicationRoute.ApplicationAdminRoutes(admin, db)
	offerRoute.OfferAdminRoutes(admin, db)
	paymentRoute.PaymentAdminRoutes(admin, db)

	log.Println("[INFO] All routes registered")
}
