package errs

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsMapStatusAndCode(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{Validation("v"), "VALIDATION_ERROR", fiber.StatusBadRequest},
		{NotFound("n"), "NOT_FOUND", fiber.StatusNotFound},
		{Unauthorized("u"), "UNAUTHORIZED", fiber.StatusUnauthorized},
		{Forbidden("f"), "FORBIDDEN", fiber.StatusForbidden},
		{InsufficientStock("s"), "INSUFFICIENT_STOCK", fiber.StatusBadRequest},
		{InvalidTransition("t"), "INVALID_TRANSITION", fiber.StatusBadRequest},
		{InvalidSignature("sig"), "INVALID_SIGNATURE", fiber.StatusBadRequest},
		{GatewayUnavailable("g", nil), "GATEWAY_UNAVAILABLE", fiber.StatusBadGateway},
		{Internal("i", nil), "INTERNAL", fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Error fetching order", cause)

	assert.Equal(t, "Error fetching order: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))

	plain := NotFound("Order not found")
	assert.Equal(t, "Order not found", plain.Error())
	assert.Nil(t, errors.Unwrap(plain))
}

func TestErrorsAsFindsAppError(t *testing.T) {
	var appErr *AppError
	err := error(InsufficientStock("Insufficient stock for product X"))

	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", appErr.Code)
}
