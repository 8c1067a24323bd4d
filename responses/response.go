package responses

import "github.com/gofiber/fiber/v2"

// ApiResponse is the common response envelope.
type ApiResponse struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Code    string     `json:"code,omitempty"`
	Result  *fiber.Map `json:"result,omitempty"`
}

func OK(c *fiber.Ctx, message string, result *fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Result:  result,
	})
}

func Created(c *fiber.Ctx, message string, result *fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(ApiResponse{
		Status:  fiber.StatusCreated,
		Message: message,
		Result:  result,
	})
}
