package routes

import (
	paymentController "github.com/FaizwebWorks/ambika-backend/controllers/payments"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	// The webhook is authenticated by its signature, not a bearer token.
	app.Post("/api/payments/stripe/webhook", paymentController.StripeWebhook)

	app.Post("/api/payments/stripe/intent", middlewares.AuthMiddleware, paymentController.CreateStripePaymentIntent)
	app.Post("/api/payments/stripe/checkout", middlewares.AuthMiddleware, paymentController.CreateStripeCheckoutSession)
	app.Post("/api/payments/stripe/confirm", middlewares.AuthMiddleware, paymentController.ConfirmStripePayment)
	app.Get("/api/payments/stripe/session/:sessionId", middlewares.AuthMiddleware, paymentController.GetStripeSession)

	app.Post("/api/payments/razorpay/order", middlewares.AuthMiddleware, paymentController.CreateRazorpayOrder)
	app.Post("/api/payments/razorpay/verify", middlewares.AuthMiddleware, paymentController.VerifyRazorpayPayment)

	app.Get("/api/payments/upi/request/:orderId", middlewares.AuthMiddleware, paymentController.CreateUPIPaymentRequest)
	app.Post("/api/payments/upi/verify", middlewares.AuthMiddleware, paymentController.VerifyUPIPayment)
	app.Post("/api/admin/payments/upi/collect", middlewares.AuthMiddleware, middlewares.RequireAdmin, paymentController.CreateUPICollectQR)

	app.Get("/api/subscriptions/plans", paymentController.GetSubscriptionPlans)
	app.Get("/api/subscriptions/current", middlewares.AuthMiddleware, paymentController.GetCurrentSubscription)
	app.Get("/api/subscriptions/history", middlewares.AuthMiddleware, paymentController.GetSubscriptionHistory)
	app.Post("/api/subscriptions/order", middlewares.AuthMiddleware, middlewares.RequireAdmin, paymentController.CreateSubscriptionOrder)
	app.Post("/api/subscriptions/verify", middlewares.AuthMiddleware, middlewares.RequireAdmin, paymentController.VerifySubscriptionPayment)
	app.Post("/api/subscriptions/cancel", middlewares.AuthMiddleware, middlewares.RequireAdmin, paymentController.CancelSubscription)
}
