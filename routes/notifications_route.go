package routes

import (
	notificationController "github.com/FaizwebWorks/ambika-backend/controllers/notifications"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	app.Get("/api/notifications", middlewares.AuthMiddleware, notificationController.GetNotifications)
	app.Post("/api/notifications/read-all", middlewares.AuthMiddleware, notificationController.MarkAllNotificationsRead)
	app.Post("/api/notifications/:id/read", middlewares.AuthMiddleware, notificationController.MarkNotificationRead)

	app.Get("/api/admin/feed", middlewares.AuthMiddleware, middlewares.RequireAdmin, notificationController.GetAdminFeed)
	app.Post("/api/admin/feed/:id/resolve", middlewares.AuthMiddleware, middlewares.RequireAdmin, notificationController.ResolveAdminFeedEntry)
}
