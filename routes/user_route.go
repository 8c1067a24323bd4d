package routes

import (
	userController "github.com/FaizwebWorks/ambika-backend/controllers/user"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func UserRoute(app *fiber.App) {
	app.Post("/api/auth/signup", userController.UserSignUp)
	app.Post("/api/auth/signin", userController.UserSignIn)

	app.Get("/api/profile", middlewares.AuthMiddleware, userController.GetUserProfile)
	app.Put("/api/profile", middlewares.AuthMiddleware, userController.UpdateUserProfile)

	app.Get("/api/admin/b2b/pending", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, userController.GetPendingB2BUsers)
	app.Post("/api/admin/b2b/:id/approve", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, userController.ApproveB2BUser)
	app.Post("/api/admin/b2b/:id/reject", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, userController.RejectB2BUser)
}
