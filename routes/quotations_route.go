package routes

import (
	quotationController "github.com/FaizwebWorks/ambika-backend/controllers/quotations"
	"github.com/FaizwebWorks/ambika-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func QuotationRoutes(app *fiber.App) {
	app.Post("/api/quotations", middlewares.AuthMiddleware, quotationController.CreateQuotationRequest)
	app.Get("/api/quotations", middlewares.AuthMiddleware, quotationController.GetMyQuotations)

	app.Get("/api/admin/quotations", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, quotationController.GetAllQuotations)
	app.Post("/api/admin/quotations/:id/respond", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, quotationController.RespondToQuotation)
	app.Post("/api/admin/quotations/:id/close", middlewares.AuthMiddleware, middlewares.RequireAdmin, middlewares.CheckSubscriptionWithGrace, quotationController.CloseQuotation)
}
