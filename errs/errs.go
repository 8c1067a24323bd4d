package errs

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/FaizwebWorks/ambika-backend/responses"
	"github.com/FaizwebWorks/ambika-backend/utils"
)

// AppError carries the error category alongside the HTTP status it maps to.
// Handlers return these and the fiber error handler renders the envelope.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func Validation(message string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Status: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Status: fiber.StatusNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: fiber.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: fiber.StatusForbidden, Message: message}
}

func InsufficientStock(message string) *AppError {
	return &AppError{Code: "INSUFFICIENT_STOCK", Status: fiber.StatusBadRequest, Message: message}
}

func InvalidTransition(message string) *AppError {
	return &AppError{Code: "INVALID_TRANSITION", Status: fiber.StatusBadRequest, Message: message}
}

func InvalidSignature(message string) *AppError {
	return &AppError{Code: "INVALID_SIGNATURE", Status: fiber.StatusBadRequest, Message: message}
}

func GatewayUnavailable(message string, err error) *AppError {
	return &AppError{Code: "GATEWAY_UNAVAILABLE", Status: fiber.StatusBadGateway, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Code: "INTERNAL", Status: fiber.StatusInternalServerError, Message: message, Err: err}
}

// NewErrorHandler builds the app-level fiber error handler. Wrapped causes
// are only echoed to clients in development.
func NewErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				utils.Logger.Error().Err(err).Str("path", c.Path()).Str("code", appErr.Code).Msg("request failed")
			}
			message := appErr.Message
			if dev && appErr.Err != nil {
				message = appErr.Error()
			}
			return c.Status(appErr.Status).JSON(responses.ApiResponse{
				Status:  appErr.Status,
				Message: message,
				Code:    appErr.Code,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(responses.ApiResponse{
				Status:  fiberErr.Code,
				Message: fiberErr.Message,
			})
		}

		utils.Logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		message := "Internal server error"
		if dev {
			message = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: message,
		})
	}
}
