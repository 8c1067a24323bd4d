package routes

import (
	productController "github.com/FaizwebWorks/ambika-backend/controllers/products"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func ProductRoutes(app *fiber.App) {
	app.Get("/api/products", productController.GetProducts)
	app.Get("/api/products/:id", productController.GetProductById)

	app.Post("/api/admin/products", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, productController.CreateProduct)
	app.Put("/api/admin/products/:id", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, productController.UpdateProduct)
	app.Post("/api/admin/products/:id/restock", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, productController.RestockProduct)
	app.Delete("/api/admin/products/:id", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, productController.DeleteProduct)
}
