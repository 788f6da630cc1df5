package middlewares

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

func AdminAuth() fiber.Handler {
	expectedToken := os.Getenv("ADMIN_API_TOKEN")

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")

		if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_ADMIN_TOKEN",
			})
		}

		return c.Next()
	}
}
