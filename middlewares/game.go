package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/gofiber/fiber/v2"
)

// GameAuth verifies the HMAC signature the game platform puts on outcome
// reports: hex(hmac-sha256(body, GAME_CALLBACK_SECRET)).
func GameAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Signature")
		secret := os.Getenv("GAME_CALLBACK_SECRET")

		if signature == "" || secret == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_SIGNATURE",
			})
		}

		h := hmac.New(sha256.New, []byte(secret))
		h.Write(c.Body())
		expected := hex.EncodeToString(h.Sum(nil))

		if !hmac.Equal([]byte(signature), []byte(expected)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_SIGNATURE",
			})
		}

		return c.Next()
	}
}
