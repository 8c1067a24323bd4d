package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/FaizwebWorks/ambika-backend/configs"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
)

// AuthMiddleware validates the bearer token and stores the caller's id,
// role and customer type in Locals.
func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return errs.Unauthorized("No auth token, access denied")
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
		return errs.Unauthorized("Invalid authorization header format")
	}

	claims := &jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(configs.EnvJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return errs.Unauthorized("Token verification failed, access denied")
	}

	userId, ok := (*claims)["id"].(string)
	if !ok || userId == "" {
		return errs.Unauthorized("User ID not found in token")
	}

	c.Locals("userId", userId)
	if role, ok := (*claims)["role"].(string); ok {
		c.Locals("role", role)
	}
	if customerType, ok := (*claims)["customerType"].(string); ok {
		c.Locals("customerType", customerType)
	}

	return c.Next()
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return errs.Forbidden("Admin access required")
	}
	return c.Next()
}

// UserId returns the authenticated caller's id from Locals.
func UserId(c *fiber.Ctx) (string, bool) {
	userId, ok := c.Locals("userId").(string)
	return userId, ok && userId != ""
}

func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin
}
