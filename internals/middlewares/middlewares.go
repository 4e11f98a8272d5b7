package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMw "uniportal_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global dengan urutan yang aman:
// recovery paling luar, lalu CORS, logger, dan global limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMw.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
