package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FaizwebWorks/ambika-backend/configs"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/responses"
	"github.com/FaizwebWorks/ambika-backend/routes"
	"github.com/FaizwebWorks/ambika-backend/utils"
)

func main() {
	configs.Load()

	configs.ConnectDB()
	configs.ConnectRedis()

	app := fiber.New(fiber.Config{
		AppName:      "ambika-backend",
		ErrorHandler: errs.NewErrorHandler(configs.EnvAppEnv() == "development"),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: configs.EnvFrontendURL(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return responses.OK(c, "ok", nil)
	})

	routes.UserRoute(app)
	routes.ProductRoutes(app)
	routes.CategoryRoutes(app)
	routes.CartRoutes(app)
	routes.OrderRoutes(app)
	routes.PaymentRoutes(app)
	routes.QuotationRoutes(app)
	routes.NotificationRoutes(app)

	addr := ":" + configs.EnvPort()
	utils.Logger.Info().Str("addr", addr).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		utils.Logger.Fatal().Err(err).Msg("server stopped")
	}
}
