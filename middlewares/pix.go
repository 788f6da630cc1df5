package middlewares

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// PixWebhookAuth rejects webhook deliveries that do not carry the shared
// provider token. Untrusted payloads are the only ones allowed to get a
// non-200 answer; everything past this middleware must ack with 200 so the
// provider stops retrying.
func PixWebhookAuth() fiber.Handler {
	expectedToken := os.Getenv("PIX_WEBHOOK_TOKEN")

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Webhook-Token")

		if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "UNTRUSTED_SOURCE",
			})
		}

		return c.Next()
	}
}
