package purchaseRoutes

import (
	controllers "lms/controllers/purchase"
	"lms/middleware"
	validators "lms/validators/purchase"

	"github.com/gofiber/fiber/v2"
)

// SetupPurchaseRoutes sets up checkout, webhook and purchase query routes
func SetupPurchaseRoutes(app *fiber.App) {
	purchaseGroup := app.Group("/purchase")

	purchaseGroup.Post("/checkout/create-checkout-session", middleware.JWTMiddleware, validators.CreateCheckoutSession(), controllers.CreateCheckoutSession)

	// Authenticated by the gateway signature, not a user token
	purchaseGroup.Post("/webhook", controllers.StripeWebhook)

	purchaseGroup.Get("/detail-with-status/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetailWithStatus)
	purchaseGroup.Get("/", middleware.JWTMiddleware, controllers.GetAllPurchasedCourses)
}
