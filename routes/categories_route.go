package routes

import (
	categoryController "github.com/FaizwebWorks/ambika-backend/controllers/categories"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func CategoryRoutes(app *fiber.App) {
	app.Get("/api/categories", categoryController.GetCategories)
	app.Get("/api/categories/:id", categoryController.GetCategoryById)

	app.Post("/api/admin/categories", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, categoryController.CreateCategory)
	app.Put("/api/admin/categories/:id", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, categoryController.UpdateCategory)
	app.Delete("/api/admin/categories/:id", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, categoryController.DeleteCategory)
}
