package paymentRoutes

import (
	controllers "edupay/controllers/payment"
	"edupay/middleware"
	validators "edupay/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up order, callback and entitlement routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	// Order ledger
	paymentGroup.Post("/order", middleware.JWTMiddleware, validators.CreateOrder(), controllers.CreateOrder)
	paymentGroup.Post("/order/:id/checkout", middleware.JWTMiddleware, validators.Checkout(), controllers.Checkout)

	// Gateway redirect targets. Unauthenticated by design: the gateway
	// redirects the webview here and authenticity comes from the signature.
	paymentGroup.Get("/callback/payment-success", controllers.PaymentSuccess)
	paymentGroup.Get("/callback/payment-failure", controllers.PaymentFailure)

	// Client re-post of the redirect parameters
	paymentGroup.Post("/verify", middleware.JWTMiddleware, validators.VerifyPayment(), controllers.VerifyPayment)

	// Entitlement queries
	paymentGroup.Get("/access/:courseId", middleware.JWTMiddleware, validators.CourseAccess(), controllers.GetCourseAccess)
	paymentGroup.Post("/access/:userId/:courseId/rebuild", middleware.JWTMiddleware, validators.RebuildAccess(), controllers.RebuildAccess)
}
