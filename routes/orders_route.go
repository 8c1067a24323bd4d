package routes

import (
	orderController "github.com/FaizwebWorks/ambika-backend/controllers/orders"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	// Tracking is public: the order number itself is the access grant.
	app.Get("/api/orders/track/:orderNumber", orderController.TrackOrder)

	app.Post("/api/orders", middlewares.AuthMiddleware, orderController.CreateOrder)
	app.Get("/api/orders", middlewares.AuthMiddleware, orderController.GetUserOrders)
	app.Get("/api/orders/stats", middlewares.AuthMiddleware, orderController.GetMyOrderStats)
	app.Get("/api/orders/:id", middlewares.AuthMiddleware, orderController.GetOrderById)
	app.Put("/api/orders/:id/cancel", middlewares.AuthMiddleware, orderController.CancelOrder)

	app.Get("/api/admin/orders", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, orderController.GetAllOrders)
	app.Get("/api/admin/orders/stats", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, orderController.GetOrderStats)
	app.Put("/api/admin/orders/:id/status", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, orderController.UpdateOrderStatus)
}
