package routes

import (
	cartController "github.com/FaizwebWorks/ambika-backend/controllers/cart"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func CartRoutes(app *fiber.App) {
	app.Get("/api/cart", middlewares.AuthMiddleware, cartController.GetCart)
	app.Post("/api/cart/add", middlewares.AuthMiddleware, cartController.AddToCart)
	app.Post("/api/cart/decrement", middlewares.AuthMiddleware, cartController.DecrementFromCart)
	app.Post("/api/cart/remove", middlewares.AuthMiddleware, cartController.RemoveFromCart)
	app.Delete("/api/cart", middlewares.AuthMiddleware, cartController.ClearCart)

	app.Get("/api/wishlist", middlewares.AuthMiddleware, cartController.GetWishlist)
	app.Post("/api/wishlist/:productId", middlewares.AuthMiddleware, cartController.ToggleWishlist)
}
